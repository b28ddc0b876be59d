package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iho/chitledger/internal/adapter/collaborator/httpjson"
	"github.com/iho/chitledger/internal/adapter/http/dto"
	"github.com/iho/chitledger/internal/domain"
	"github.com/iho/chitledger/internal/infrastructure/auth"
	"github.com/iho/chitledger/internal/infrastructure/postgres"
)

var (
	baseURL string
	timeout time.Duration
	token   string
)

// errNotReconciled makes reconcile exit non-zero when discrepancies exist.
var errNotReconciled = errors.New("escrow accounts out of balance")

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "chitctl",
		Short:         "Chit fund escrow ledger CLI",
		Long:          `A command line interface for operating the chit fund escrow ledger API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&baseURL, "url", envOr("CHITLEDGER_URL", "http://localhost:8080"), "Base URL of the ledger API")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	root.PersistentFlags().StringVar(&token, "token", os.Getenv("CHITLEDGER_TOKEN"), "Bearer token")

	root.AddCommand(
		estimateCmd(),
		balanceCmd(),
		freezeCmd(),
		unfreezeCmd(),
		releaseCmd(),
		reconcileCmd(),
		tokenCmd(),
		migrateCmd(),
	)
	return root
}

func newClient(opts ...httpjson.Option) *httpjson.Client {
	opts = append([]httpjson.Option{httpjson.WithBearerToken(token)}, opts...)
	return httpjson.New(baseURL, timeout, opts...)
}

func estimateCmd() *cobra.Command {
	var (
		req     dto.EstimateRequest
		months  int
		members int
		groupID string
		offline bool
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate contributions and final payout for a chit group",
		RunE: func(cmd *cobra.Command, args []string) error {
			req.DurationMonths = json.Number(strconv.Itoa(months))
			req.NumberOfMembers = json.Number(strconv.Itoa(members))

			if offline {
				in, err := req.ToDomain()
				if err != nil {
					return err
				}
				result, err := domain.Calculate(in, domain.DefaultGroupLimits())
				if err != nil {
					return err
				}
				printJSON(dto.EstimateFromDomain(result))
				return nil
			}

			var out dto.EstimateResponse
			if groupID != "" {
				return printResult(&out, newClient().Do(cmd.Context(), http.MethodGet, "/api/v1/groups/"+url.PathEscape(groupID)+"/estimate", nil, &out))
			}
			return printResult(&out, newClient().Do(cmd.Context(), http.MethodPost, "/api/v1/estimate", &req, &out))
		},
	}

	cmd.Flags().StringVar(&req.TotalChitAmount, "total", "", "Total chit amount")
	cmd.Flags().IntVar(&months, "months", 0, "Duration in months")
	cmd.Flags().IntVar(&members, "members", 0, "Number of members")
	cmd.Flags().StringVar(&req.CommissionRatePct, "commission", "5", "Commission rate percent")
	cmd.Flags().StringVar(&req.InterestRatePct, "interest", "12", "Annual interest rate percent")
	cmd.Flags().StringVar(&groupID, "group", "", "Estimate for a stored group instead")
	cmd.Flags().BoolVar(&offline, "offline", false, "Compute locally without calling the API")
	return cmd
}

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <escrow-account-id>",
		Short: "Show an escrow account's collected, released and locked amounts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out dto.EscrowResponse
			return printResult(&out, newClient().Do(cmd.Context(), http.MethodGet, accountPath(args[0], ""), nil, &out))
		},
	}
}

func freezeCmd() *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "freeze <escrow-account-id>",
		Short: "Freeze an escrow account, blocking payouts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out dto.EscrowResponse
			return printResult(&out, newClient().Do(cmd.Context(), http.MethodPost, accountPath(args[0], "/freeze"), dto.FreezeRequest{Reason: reason}, &out))
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "Why the account is frozen")
	_ = cmd.MarkFlagRequired("reason")
	return cmd
}

func unfreezeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unfreeze <escrow-account-id>",
		Short: "Return a frozen escrow account to ACTIVE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out dto.EscrowResponse
			return printResult(&out, newClient().Do(cmd.Context(), http.MethodPost, accountPath(args[0], "/unfreeze"), nil, &out))
		},
	}
}

func releaseCmd() *cobra.Command {
	var (
		req            dto.ReleasePayoutRequest
		idempotencyKey string
	)
	cmd := &cobra.Command{
		Use:   "release <escrow-account-id>",
		Short: "Release a cycle's payout to its winner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if idempotencyKey == "" {
				idempotencyKey = uuid.NewString()
			}
			client := newClient(httpjson.WithHeader("Idempotency-Key", idempotencyKey))

			var out dto.PayoutResponse
			return printResult(&out, client.Do(cmd.Context(), http.MethodPost, accountPath(args[0], "/payouts"), &req, &out))
		},
	}
	cmd.Flags().StringVar(&req.WinnerUserID, "winner", "", "Winning member's user id")
	cmd.Flags().IntVar(&req.CycleMonth, "cycle", 0, "Cycle month being paid")
	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Reuse a key to retry safely (random when empty)")
	_ = cmd.MarkFlagRequired("winner")
	_ = cmd.MarkFlagRequired("cycle")
	return cmd
}

func reconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile [escrow-account-id]",
		Short: "Check collected and released totals against settled records",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				var out dto.ReconciliationResponse
				if err := newClient().Do(cmd.Context(), http.MethodGet, accountPath(args[0], "/reconciliation"), nil, &out); err != nil {
					return err
				}
				printJSON(out)
				if !out.IsReconciled {
					return errNotReconciled
				}
				return nil
			}

			var out dto.ReconciliationReportResponse
			if err := newClient().Do(cmd.Context(), http.MethodGet, "/api/v1/reconciliation", nil, &out); err != nil {
				return err
			}
			printJSON(out)
			if len(out.Discrepancies) > 0 {
				return fmt.Errorf("%w: %d of %d", errNotReconciled, len(out.Discrepancies), out.TotalAccounts)
			}
			return nil
		},
	}
}

func tokenCmd() *cobra.Command {
	var (
		secret string
		userID string
		email  string
		role   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return errors.New("--secret or JWT_SECRET is required")
			}
			signed, err := auth.NewJWTManager(secret, ttl).Generate(&domain.User{
				ID:    userID,
				Email: email,
				Role:  domain.Role(role),
			})
			if err != nil {
				return err
			}
			fmt.Println(signed)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "HMAC signing secret")
	cmd.Flags().StringVar(&userID, "user", "", "User id")
	cmd.Flags().StringVar(&email, "email", "", "User email")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleMember), "admin, operator or member")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func migrateCmd() *cobra.Command {
	var (
		databaseURL string
		path        string
	)
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply, roll back or inspect database migrations",
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", envOr("DATABASE_URL", ""), "PostgreSQL URL")
	cmd.PersistentFlags().StringVar(&path, "path", envOr("MIGRATIONS_PATH", "internal/infrastructure/postgres/migrations"), "Migrations directory")

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				if databaseURL == "" {
					return errors.New("--database-url or DATABASE_URL is required")
				}
				return postgres.RunMigrations(databaseURL, path, logger)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				if databaseURL == "" {
					return errors.New("--database-url or DATABASE_URL is required")
				}
				return postgres.RunMigrationsDown(databaseURL, path, logger)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			RunE: func(cmd *cobra.Command, args []string) error {
				if databaseURL == "" {
					return errors.New("--database-url or DATABASE_URL is required")
				}
				version, dirty, err := postgres.SchemaVersion(databaseURL, path)
				if err != nil {
					return err
				}
				fmt.Printf("version %d (dirty: %t)\n", version, dirty)
				return nil
			},
		},
	)
	return cmd
}

func accountPath(id, suffix string) string {
	return "/api/v1/escrow-accounts/" + url.PathEscape(id) + suffix
}

func printResult(v any, err error) error {
	if err != nil {
		var se *httpjson.StatusError
		if errors.As(err, &se) {
			return fmt.Errorf("request failed (status %d): %s", se.StatusCode, truncate(se.Body, 200))
		}
		return err
	}
	printJSON(v)
	return nil
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to format output: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
