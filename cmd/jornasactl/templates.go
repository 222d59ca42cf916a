package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jornabot/jornasa-go/internal/model"
	"github.com/jornabot/jornasa-go/internal/service"
	"github.com/jornabot/jornasa-go/internal/templatemeta"
)

func newTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage document templates and their usage metadata",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List templates with their metadata merged in",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			svc := service.NewTemplates(a.backend(a.cfg.TemplatesBackend), a.store, a.api)
			records, err := svc.List(cmd.Context(), a.cfg.UserID)
			if err != nil {
				return err
			}
			// merge the annotation layer over the content records
			for _, record := range records {
				meta := a.meta.Get(record.ID())
				record["meta"] = meta
			}
			return printJSON(os.Stdout, records)
		},
	}

	criar := &cobra.Command{
		Use:   "criar",
		Short: "Create a template",
		RunE: func(cmd *cobra.Command, args []string) error {
			nome, _ := cmd.Flags().GetString("nome")
			conteudo, _ := cmd.Flags().GetString("conteudo")
			if nome == "" || conteudo == "" {
				return fmt.Errorf("--nome and --conteudo are required")
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			svc := service.NewTemplates(a.backend(a.cfg.TemplatesBackend), a.store, a.api)
			record, err := svc.Create(cmd.Context(), a.cfg.UserID, model.Record{
				"nome":     nome,
				"conteudo": conteudo,
			})
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, record)
		},
	}
	criar.Flags().String("nome", "", "template name (required)")
	criar.Flags().String("conteudo", "", "template body (required)")
	_ = criar.MarkFlagRequired("nome")
	_ = criar.MarkFlagRequired("conteudo")

	deletar := &cobra.Command{
		Use:   "deletar <id>",
		Short: "Delete a template and its metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			svc := service.NewTemplates(a.backend(a.cfg.TemplatesBackend), a.store, a.api)
			if err := svc.Delete(cmd.Context(), a.cfg.UserID, args[0]); err != nil {
				return err
			}
			// metadata cleanup is the caller's responsibility, done here
			a.meta.Remove(args[0])
			return nil
		},
	}

	usar := &cobra.Command{
		Use:   "usar <id>",
		Short: "Record a template usage and print its content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			svc := service.NewTemplates(a.backend(a.cfg.TemplatesBackend), a.store, a.api)
			records, err := svc.List(cmd.Context(), a.cfg.UserID)
			if err != nil {
				return err
			}
			for _, record := range records {
				if record.ID() == args[0] {
					a.meta.RecordUsage(args[0])
					fmt.Fprintln(os.Stdout, record.String("conteudo"))
					return nil
				}
			}
			return fmt.Errorf("template %s não encontrado", args[0])
		},
	}

	favoritar := &cobra.Command{
		Use:   "favoritar <id>",
		Short: "Toggle a template's favorite flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			current := a.meta.Get(args[0])
			next := !current.Favorito
			meta := a.meta.Upsert(args[0], templatemeta.Patch{Favorito: &next})
			return printJSON(os.Stdout, meta)
		},
	}

	classificar := &cobra.Command{
		Use:   "classificar <id>",
		Short: "Set a template's category and tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			patch := templatemeta.Patch{}
			if cmd.Flags().Changed("categoria") {
				v, _ := cmd.Flags().GetString("categoria")
				patch.Categoria = &v
			}
			if cmd.Flags().Changed("tags") {
				v, _ := cmd.Flags().GetString("tags")
				tags := []string{}
				for _, tag := range strings.Split(v, ",") {
					if tag = strings.TrimSpace(tag); tag != "" {
						tags = append(tags, tag)
					}
				}
				patch.Tags = &tags
			}
			meta := a.meta.Upsert(args[0], patch)
			return printJSON(os.Stdout, meta)
		},
	}
	classificar.Flags().String("categoria", "", "template category")
	classificar.Flags().String("tags", "", "comma-separated tags")

	cmd.AddCommand(list, criar, deletar, usar, favoritar, classificar)
	return cmd
}
