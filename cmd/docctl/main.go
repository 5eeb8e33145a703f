package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	serverURL   string
	apiPrefix   string
	apiKey      string
	bearer      string
	sessionID   string
	sessionFile string
	timeout     time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "docctl",
	Short: "Upload PDFs and ask questions against a docchat server",
	Long: `docctl talks to the docchat REST API.

The chat session id returned by the server is stored in a local session
file so that upload and ask share the same document scope.`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&serverURL, "server", envOr("DOCCTL_SERVER", "http://localhost:8000"), "server base URL")
	pf.StringVar(&apiPrefix, "prefix", "/api/v1", "API prefix")
	pf.StringVar(&apiKey, "api-key", os.Getenv("DOCCTL_API_KEY"), "value for the X-API-Key header")
	pf.StringVar(&bearer, "token", os.Getenv("DOCCTL_TOKEN"), "bearer token for JWT protected servers")
	pf.StringVar(&sessionID, "session", "", "chat session id (overrides the session file)")
	pf.StringVar(&sessionFile, "session-file", ".docctl_session", "file remembering the chat session id")
	pf.DurationVar(&timeout, "timeout", 2*time.Minute, "request timeout")

	rootCmd.AddCommand(uploadCmd, askCmd, tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newClientFromFlags() *Client {
	c := NewClient(serverURL+apiPrefix, timeout)
	c.APIKey = apiKey
	c.Token = bearer
	c.SessionID = sessionID
	if c.SessionID == "" {
		c.SessionID = readSession(sessionFile)
	}
	return c
}

func rememberSession(c *Client) {
	if c.SessionID == "" || sessionID != "" {
		return
	}
	if err := os.WriteFile(sessionFile, []byte(c.SessionID+"\n"), 0o600); err != nil {
		color.Yellow("could not save session: %v", err)
	}
}

func printSession(c *Client) {
	fmt.Printf("%s %s\n", color.CyanString("chat_id:"), c.SessionID)
}
