package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jornabot/jornasa-go/internal/chat"
	"github.com/jornabot/jornasa-go/internal/service"
)

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the AI assistant",
	}

	enviar := &cobra.Command{
		Use:   "enviar <mensagem...>",
		Short: "Send a message and print the assistant's reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			web, _ := cmd.Flags().GetBool("web")
			conversaID, _ := cmd.Flags().GetString("conversa")
			a, err := newApp()
			if err != nil {
				return err
			}
			chats := service.NewChat(a.backend(a.cfg.ChatBackend), a.store, a.api)
			session := chat.NewSession(chats, a.cfg.UserID,
				chat.WithCache(chat.NewReplyCache(a.cfg.ChatCacheSize)),
			)
			if conversaID != "" {
				if err := session.Load(cmd.Context(), conversaID); err != nil {
					return err
				}
			}
			reply, err := session.Send(cmd.Context(), strings.Join(args, " "), web)
			if err != nil {
				return err
			}
			if reply != nil {
				fmt.Fprintln(os.Stdout, reply.String("content"))
			}
			return nil
		},
	}
	enviar.Flags().Bool("web", false, "allow the assistant to search the web")
	enviar.Flags().String("conversa", "", "continue an existing conversation id")

	conversas := &cobra.Command{
		Use:   "conversas",
		Short: "List conversations",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			chats := service.NewChat(a.backend(a.cfg.ChatBackend), a.store, a.api)
			records, err := chats.Conversations(cmd.Context(), a.cfg.UserID)
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, records)
		},
	}

	mensagens := &cobra.Command{
		Use:   "mensagens <conversa-id>",
		Short: "List a conversation's messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			chats := service.NewChat(a.backend(a.cfg.ChatBackend), a.store, a.api)
			records, err := chats.Messages(cmd.Context(), a.cfg.UserID, args[0])
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, records)
		},
	}

	deletar := &cobra.Command{
		Use:   "deletar <conversa-id>",
		Short: "Delete a conversation and its messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			chats := service.NewChat(a.backend(a.cfg.ChatBackend), a.store, a.api)
			return chats.DeleteConversation(cmd.Context(), a.cfg.UserID, args[0])
		},
	}

	cmd.AddCommand(enviar, conversas, mensagens, deletar)
	return cmd
}
