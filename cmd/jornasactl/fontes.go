package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jornabot/jornasa-go/internal/model"
	"github.com/jornabot/jornasa-go/internal/service"
)

func newFontesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fontes",
		Short: "Manage the contact/source directory",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List fontes",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			svc := service.NewFontes(a.backend(a.cfg.FontesBackend), a.store, a.api)
			records, err := svc.List(cmd.Context(), a.cfg.UserID)
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, records)
		},
	}

	criar := &cobra.Command{
		Use:   "criar",
		Short: "Create a fonte",
		RunE: func(cmd *cobra.Command, args []string) error {
			nome, _ := cmd.Flags().GetString("nome")
			if nome == "" {
				return fmt.Errorf("--nome is required")
			}
			cargo, _ := cmd.Flags().GetString("cargo")
			contato, _ := cmd.Flags().GetString("contato")
			categoria, _ := cmd.Flags().GetString("categoria")
			oficial, _ := cmd.Flags().GetBool("oficial")
			a, err := newApp()
			if err != nil {
				return err
			}
			svc := service.NewFontes(a.backend(a.cfg.FontesBackend), a.store, a.api)
			record, err := svc.Create(cmd.Context(), a.cfg.UserID, model.Record{
				"nome":      nome,
				"cargo":     cargo,
				"contato":   contato,
				"categoria": categoria,
				"oficial":   oficial,
			})
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, record)
		},
	}
	criar.Flags().String("nome", "", "contact name (required)")
	criar.Flags().String("cargo", "", "role/title")
	criar.Flags().String("contato", "", "email or phone")
	criar.Flags().String("categoria", "", "beat, e.g. Política, Saúde")
	criar.Flags().Bool("oficial", false, "mark as an official source")
	_ = criar.MarkFlagRequired("nome")

	atualizar := &cobra.Command{
		Use:   "atualizar <id>",
		Short: "Update a fonte's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := model.Record{}
			for _, field := range []string{"nome", "cargo", "contato", "categoria"} {
				if cmd.Flags().Changed(field) {
					v, _ := cmd.Flags().GetString(field)
					payload[field] = v
				}
			}
			if cmd.Flags().Changed("oficial") {
				v, _ := cmd.Flags().GetBool("oficial")
				payload["oficial"] = v
			}
			if len(payload) == 0 {
				return fmt.Errorf("nothing to update")
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			svc := service.NewFontes(a.backend(a.cfg.FontesBackend), a.store, a.api)
			record, err := svc.Update(cmd.Context(), a.cfg.UserID, args[0], payload)
			if err != nil {
				return err
			}
			if record == nil {
				return fmt.Errorf("fonte %s não encontrada", args[0])
			}
			return printJSON(os.Stdout, record)
		},
	}
	atualizar.Flags().String("nome", "", "new name")
	atualizar.Flags().String("cargo", "", "new role")
	atualizar.Flags().String("contato", "", "new contact")
	atualizar.Flags().String("categoria", "", "new category")
	atualizar.Flags().Bool("oficial", false, "official flag")

	deletar := &cobra.Command{
		Use:   "deletar <id>",
		Short: "Delete a fonte",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			svc := service.NewFontes(a.backend(a.cfg.FontesBackend), a.store, a.api)
			return svc.Delete(cmd.Context(), a.cfg.UserID, args[0])
		},
	}

	cmd.AddCommand(list, criar, atualizar, deletar)
	return cmd
}
