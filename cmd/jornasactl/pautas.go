package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jornabot/jornasa-go/internal/model"
	"github.com/jornabot/jornasa-go/internal/service"
)

func newPautasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pautas",
		Short: "Manage story assignments",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List pautas, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			svc := service.NewPautas(a.backend(a.cfg.PautasBackend), a.store, a.api)
			records, err := svc.List(cmd.Context(), a.cfg.UserID)
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, records)
		},
	}

	criar := &cobra.Command{
		Use:   "criar",
		Short: "Create a pauta",
		RunE: func(cmd *cobra.Command, args []string) error {
			titulo, _ := cmd.Flags().GetString("titulo")
			descricao, _ := cmd.Flags().GetString("descricao")
			status, _ := cmd.Flags().GetString("status")
			deadline, _ := cmd.Flags().GetString("deadline")
			if titulo == "" {
				return fmt.Errorf("--titulo is required")
			}
			if !model.ValidStatus(status) {
				return fmt.Errorf("invalid status %q (pendente, em-andamento, concluido)", status)
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			svc := service.NewPautas(a.backend(a.cfg.PautasBackend), a.store, a.api)
			record, err := svc.Create(cmd.Context(), a.cfg.UserID, model.Record{
				"titulo":    titulo,
				"descricao": descricao,
				"status":    status,
				"deadline":  deadline,
			})
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, record)
		},
	}
	criar.Flags().String("titulo", "", "pauta title (required)")
	criar.Flags().String("descricao", "", "pauta description")
	criar.Flags().String("status", model.StatusPendente, "status: pendente, em-andamento or concluido")
	criar.Flags().String("deadline", "", "deadline (YYYY-MM-DD)")
	_ = criar.MarkFlagRequired("titulo")

	atualizar := &cobra.Command{
		Use:   "atualizar <id>",
		Short: "Update a pauta's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := model.Record{}
			for _, field := range []string{"titulo", "descricao", "status", "deadline"} {
				if cmd.Flags().Changed(field) {
					v, _ := cmd.Flags().GetString(field)
					payload[field] = v
				}
			}
			if len(payload) == 0 {
				return fmt.Errorf("nothing to update")
			}
			if status, ok := payload["status"].(string); ok && !model.ValidStatus(status) {
				return fmt.Errorf("invalid status %q", status)
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			svc := service.NewPautas(a.backend(a.cfg.PautasBackend), a.store, a.api)
			record, err := svc.Update(cmd.Context(), a.cfg.UserID, args[0], payload)
			if err != nil {
				return err
			}
			if record == nil {
				return fmt.Errorf("pauta %s não encontrada", args[0])
			}
			return printJSON(os.Stdout, record)
		},
	}
	atualizar.Flags().String("titulo", "", "new title")
	atualizar.Flags().String("descricao", "", "new description")
	atualizar.Flags().String("status", "", "new status")
	atualizar.Flags().String("deadline", "", "new deadline")

	deletar := &cobra.Command{
		Use:   "deletar <id>",
		Short: "Delete a pauta",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			svc := service.NewPautas(a.backend(a.cfg.PautasBackend), a.store, a.api)
			return svc.Delete(cmd.Context(), a.cfg.UserID, args[0])
		},
	}

	cmd.AddCommand(list, criar, atualizar, deletar)
	return cmd
}
