package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/scholarlab/citelens/internal/model"
	"github.com/scholarlab/citelens/internal/store"
)

var importPath string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import papers from a JSON or YAML file into the store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := store.NewSQLite(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		papers, err := readPapers(importPath)
		if err != nil {
			return err
		}

		imported := 0
		for i := range papers {
			if papers[i].Title == "" {
				zap.L().Warn("skipping paper without title", zap.Int("index", i))
				continue
			}
			if err := st.PutPaper(ctx, &papers[i]); err != nil {
				return eris.Wrapf(err, "import paper %d", i)
			}
			imported++
		}

		zap.L().Info("import complete",
			zap.Int("imported", imported),
			zap.String("file", importPath),
		)
		return nil
	},
}

// readPapers loads a paper list from path, picking the codec by file
// extension: .yaml/.yml is YAML, anything else is JSON.
func readPapers(path string) ([]model.Paper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "read import file")
	}

	var papers []model.Paper
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &papers); err != nil {
			return nil, eris.Wrap(err, "parse import file")
		}
	default:
		if err := json.Unmarshal(data, &papers); err != nil {
			return nil, eris.Wrap(err, "parse import file")
		}
	}
	return papers, nil
}

func init() {
	importCmd.Flags().StringVar(&importPath, "file", "", "path to JSON or YAML paper list (required)")
	_ = importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)
}
