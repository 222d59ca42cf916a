package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jornabot/jornasa-go/internal/model"
	"github.com/jornabot/jornasa-go/internal/service"
)

func newNotificacoesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notificacoes",
		Short: "Manage in-app notifications",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			svc := service.NewNotificacoes(a.backend(a.cfg.NotificacoesBackend), a.store, a.api)
			records, err := svc.List(cmd.Context(), a.cfg.UserID)
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, records)
		},
	}

	criar := &cobra.Command{
		Use:   "criar",
		Short: "Create a notification",
		RunE: func(cmd *cobra.Command, args []string) error {
			titulo, _ := cmd.Flags().GetString("titulo")
			conteudo, _ := cmd.Flags().GetString("conteudo")
			if titulo == "" {
				return fmt.Errorf("--titulo is required")
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			svc := service.NewNotificacoes(a.backend(a.cfg.NotificacoesBackend), a.store, a.api)
			record, err := svc.Create(cmd.Context(), a.cfg.UserID, model.Record{
				"titulo":   titulo,
				"conteudo": conteudo,
				"lido":     false,
			})
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, record)
		},
	}
	criar.Flags().String("titulo", "", "notification title (required)")
	criar.Flags().String("conteudo", "", "notification body")
	_ = criar.MarkFlagRequired("titulo")

	marcarLida := &cobra.Command{
		Use:   "marcar-lida <id>",
		Short: "Mark a notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			svc := service.NewNotificacoes(a.backend(a.cfg.NotificacoesBackend), a.store, a.api)
			record, err := svc.Update(cmd.Context(), a.cfg.UserID, args[0], model.Record{"lido": true})
			if err != nil {
				return err
			}
			if record == nil {
				return fmt.Errorf("notificação %s não encontrada", args[0])
			}
			return printJSON(os.Stdout, record)
		},
	}

	deletar := &cobra.Command{
		Use:   "deletar <id>",
		Short: "Delete a notification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			svc := service.NewNotificacoes(a.backend(a.cfg.NotificacoesBackend), a.store, a.api)
			return svc.Delete(cmd.Context(), a.cfg.UserID, args[0])
		},
	}

	cmd.AddCommand(list, criar, marcarLida, deletar)
	return cmd
}
