package cli

import (
	"context"
	"fmt"

	"exam-portal/internal/config"
	"exam-portal/internal/domain"
	"github.com/spf13/cobra"
)

// NewLearnerCmd upserts a learner profile into the configured store. Normally the identity
// service owns these rows; this is for local setups and demos.
func NewLearnerCmd(configPath *string) *cobra.Command {
	var profile domain.LearnerProfile
	var branch string
	cmd := &cobra.Command{
		Use:   "learner",
		Short: "Add or update a learner profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile.Branch = domain.Branch(branch)
			return putLearner(cmd.Context(), *configPath, profile)
		},
	}
	cmd.Flags().StringVar(&profile.ID, "id", "", "learner user id")
	cmd.Flags().StringVar(&profile.Name, "name", "", "display name")
	cmd.Flags().StringVar(&branch, "branch", "", "branch (CE, IT, ME, EE, EC, CIVIL)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("branch")
	return cmd
}

func putLearner(ctx context.Context, configPath string, profile domain.LearnerProfile) error {
	if !profile.Branch.Valid() {
		return fmt.Errorf("unknown branch %q", profile.Branch)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()
	return st.profiles.PutProfile(ctx, profile)
}
