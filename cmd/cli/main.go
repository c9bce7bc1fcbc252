package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/spf13/cobra"

	"github.com/iho/payinstr/internal/adapter/http/dto"
	"github.com/iho/payinstr/internal/domain"
	"github.com/iho/payinstr/internal/infrastructure/auth"
)

// errFailedOutcome signals a processed instruction that ended in a rejection.
var errFailedOutcome = errors.New("instruction failed")

var stdout io.Writer = os.Stdout

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errFailedOutcome) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "payinstr",
		Short:         "Payment instruction CLI",
		Long:          `Parse payment instructions locally or submit them to a payinstr server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(parseCmd(), submitCmd(), tokenCmd())
	return rootCmd
}

func parseCmd() *cobra.Command {
	var (
		accountsFile string
		today        string
	)

	cmd := &cobra.Command{
		Use:   "parse <instruction>",
		Short: "Process an instruction locally and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accounts, err := loadAccounts(accountsFile)
			if err != nil {
				return err
			}

			if today == "" {
				today = domain.Today(time.Now())
			} else if _, ok := domain.ParseExecutionDate(today); !ok {
				return fmt.Errorf("invalid --today %q, expected YYYY-MM-DD", today)
			}

			instruction := args[0]
			result := domain.Process(&instruction, accounts, today)
			printJSON(result)

			if result.Failed() {
				return errFailedOutcome
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&accountsFile, "accounts", "", "JSON file with the account list")
	cmd.Flags().StringVar(&today, "today", "", "Override the current date (YYYY-MM-DD)")
	return cmd
}

func submitCmd() *cobra.Command {
	var (
		baseURL        string
		accountsFile   string
		token          string
		idempotencyKey string
		timeout        time.Duration
		retries        uint64
	)

	cmd := &cobra.Command{
		Use:   "submit <instruction>",
		Short: "Submit an instruction to the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accounts, err := readAccountFile(accountsFile)
			if err != nil {
				return err
			}

			instruction, err := json.Marshal(args[0])
			if err != nil {
				return err
			}
			payload, err := json.Marshal(dto.ProcessInstructionRequest{Accounts: accounts, Instruction: instruction})
			if err != nil {
				return err
			}

			client := &http.Client{Timeout: timeout}
			endpoint := strings.TrimRight(baseURL, "/") + "/payment-instructions"

			var status int
			var body []byte
			op := func() error {
				req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost, endpoint, bytes.NewReader(payload))
				if err != nil {
					return backoff.Permanent(err)
				}
				req.Header.Set("Content-Type", "application/json")
				if token != "" {
					req.Header.Set("Authorization", "Bearer "+token)
				}
				if idempotencyKey != "" {
					req.Header.Set("Idempotency-Key", idempotencyKey)
				}

				resp, err := client.Do(req)
				if err != nil {
					return err
				}
				defer resp.Body.Close()

				body, err = io.ReadAll(resp.Body)
				if err != nil {
					return err
				}
				status = resp.StatusCode
				if status >= http.StatusInternalServerError || status == http.StatusTooManyRequests {
					return fmt.Errorf("server returned %d", status)
				}
				return nil
			}

			b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), retries), cmd.Context())
			if err := backoff.Retry(op, b); err != nil {
				return fmt.Errorf("submit failed: %w", err)
			}

			var result domain.Result
			if err := json.Unmarshal(body, &result); err != nil || result.Status == "" {
				return fmt.Errorf("unexpected response (status %d): %s", status, truncate(string(body), 200))
			}

			printJSON(result)
			if result.Failed() {
				return errFailedOutcome
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the payinstr server")
	cmd.Flags().StringVar(&accountsFile, "accounts", "", "JSON file with the account list")
	cmd.Flags().StringVar(&token, "token", "", "Bearer token")
	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency-Key header value")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	cmd.Flags().Uint64Var(&retries, "retries", 3, "Retries on connection errors and 5xx responses")
	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		secret   string
		clientID string
		ttl      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for an API client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = os.Getenv("JWT_SECRET")
			}
			if secret == "" {
				return errors.New("--secret or JWT_SECRET is required")
			}
			if clientID == "" {
				return errors.New("--client is required")
			}

			token, err := auth.NewJWTManager(secret, ttl).Generate(clientID)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "HMAC signing secret (defaults to JWT_SECRET)")
	cmd.Flags().StringVar(&clientID, "client", "", "Client id to embed in the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}

// readAccountFile reads a JSON array of accounts in the request body shape. An
// empty path yields no accounts.
func readAccountFile(path string) ([]*dto.AccountRequest, error) {
	if path == "" {
		return []*dto.AccountRequest{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read accounts: %w", err)
	}

	var raw []*dto.AccountRequest
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}
	return raw, nil
}

func loadAccounts(path string) ([]domain.Account, error) {
	raw, err := readAccountFile(path)
	if err != nil {
		return nil, err
	}

	req := dto.ProcessInstructionRequest{Accounts: raw}
	return req.DomainAccounts(), nil
}

func printJSON(v any) {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
