package cli

import (
	"errors"
	"fmt"
	"time"

	"exam-portal/internal/config"
	"exam-portal/internal/domain"
	transport "exam-portal/internal/transport/http"
	"github.com/spf13/cobra"
)

// NewTokenCmd signs a bearer token with the configured secret, for local testing.
func NewTokenCmd(configPath *string) *cobra.Command {
	var (
		userID string
		role   string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a development bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Auth.JWTSecret == "" {
				return errors.New("auth.jwtSecret (or JWT_SECRET) is required")
			}
			r := domain.Role(role)
			if r != domain.RoleStudent && r != domain.RoleAdmin {
				return fmt.Errorf("unknown role %q", role)
			}
			ttl := config.TTLDuration(cfg.Auth.TokenTTL, 24*time.Hour)
			tok, err := transport.IssueToken(cfg.Auth.JWTSecret, domain.Caller{UserID: userID, Role: r}, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id placed in the token subject")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleStudent), "student or admin")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
