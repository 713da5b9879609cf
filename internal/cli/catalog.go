package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"exam-portal/internal/app"
	"exam-portal/internal/config"
	"exam-portal/internal/domain"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewImportTestCmd creates a test definition from a YAML file.
func NewImportTestCmd(configPath *string) *cobra.Command {
	var (
		file   string
		author string
	)
	cmd := &cobra.Command{
		Use:   "import-test",
		Short: "Create a mock test from a YAML definition",
		RunE: func(cmd *cobra.Command, args []string) error {
			return importTest(cmd.Context(), *configPath, file, author, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "path to the YAML test definition")
	cmd.Flags().StringVar(&author, "author", "cli", "user id recorded as the test author")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func importTest(ctx context.Context, configPath, file, author string, out io.Writer) error {
	in, err := loadTestFile(file)
	if err != nil {
		return err
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

	test, err := app.NewCatalog(st.tests).CreateTest(ctx, author, in)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "created test %s (%s, %d questions)\n", test.ID, test.Title, len(test.Questions))
	return err
}

func loadTestFile(path string) (domain.NewTest, error) {
	var in domain.NewTest
	data, err := os.ReadFile(path)
	if err != nil {
		return in, err
	}
	if err := yaml.Unmarshal(data, &in); err != nil {
		return in, fmt.Errorf("parse %s: %w", path, err)
	}
	return in, nil
}
