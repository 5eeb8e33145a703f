package main

import (
	"fmt"
	"strings"
	"time"

	"docchat-be/internal/pkg/serverutils"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload FILE.pdf...",
	Short: "Upload one or more PDF files into the chat session",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClientFromFlags()
		res, err := c.Upload(cmd.Context(), args...)
		if err != nil {
			return err
		}
		rememberSession(c)

		color.Green("Uploaded %d file(s), %d chunks", len(res.Filenames), res.TotalChunks)
		for _, name := range res.Filenames {
			fmt.Printf("  %s\n", name)
		}
		printSession(c)
		return nil
	},
}

var askCmd = &cobra.Command{
	Use:   "ask QUESTION",
	Short: "Ask a question about the uploaded documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClientFromFlags()
		res, err := c.Ask(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		rememberSession(c)

		fmt.Println(res.Answer)
		if len(res.Source) > 0 {
			color.Yellow("\nSources:")
			for i, s := range res.Source {
				fmt.Printf("  [%d] %s: %s\n", i+1, color.CyanString(s.Source), snippet(s.Content, 80))
			}
		}
		return nil
	},
}

var (
	tokenSubject string
	tokenSecret  string
	tokenTTL     time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an access token signed with the server SECRET_KEY",
	RunE: func(cmd *cobra.Command, args []string) error {
		tok, err := serverutils.CreateAccessToken(tokenSubject, tokenSecret, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Println(tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "docctl", "token subject")
	tokenCmd.Flags().StringVar(&tokenSecret, "secret", envOr("SECRET_KEY", ""), "signing secret (defaults to $SECRET_KEY)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 15*time.Minute, "token lifetime")
}

func snippet(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
