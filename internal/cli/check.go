package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"go.uber.org/zap"

	"xmlbind/codec"
	"xmlbind/descriptor"
)

type checkResult struct {
	res *codec.Result
	err error
}

func (r checkResult) failed() bool {
	return r.err != nil || len(r.res.Anomalies) > 0
}

func newCheckCmd(a *app) *cobra.Command {
	var (
		typeName string
		jobs     int
	)

	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Decode documents and report anomalies",
		Long: `Check decodes every FILE against the schema, several at a time, and
fails if any document could not be read cleanly.`,
		Example: `  xmlbind check -s shop.yaml orders/*.xml`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCheck(cmd, args, typeName, jobs)
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "", "decode roots as this type instead of by element name")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.GOMAXPROCS(0), "documents decoded in parallel")

	return cmd
}

func (a *app) runCheck(cmd *cobra.Command, paths []string, typeName string, jobs int) error {
	sf, reg, err := a.registry()
	if err != nil {
		return err
	}

	t, err := resolveType(sf, reg, typeName)
	if err != nil {
		return err
	}

	dec := codec.NewDecoder(reg, a.codecOptions()...)
	results := make([]checkResult, len(paths))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(max(jobs, 1))

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			results[i] = checkFile(dec, path, t)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	failed := 0

	for i, r := range results {
		if !r.failed() {
			fmt.Fprintf(out, "%s %s\n", okColor("ok  "), paths[i])
			continue
		}

		failed++

		if r.err != nil {
			fmt.Fprintf(out, "%s %s: %v\n", failColor("FAIL"), paths[i], r.err)
			continue
		}

		fmt.Fprintf(out, "%s %s: %d anomalies\n", failColor("FAIL"), paths[i], len(r.res.Anomalies))
		printAnomalies(out, "  "+paths[i], r.res.Anomalies)
	}

	a.log.Debug("Checked documents", zap.Int("documents", len(paths)), zap.Int("failed", failed))

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(paths))
	}

	return nil
}

func checkFile(dec *codec.Decoder, path string, t *descriptor.Type) checkResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return checkResult{err: err}
	}

	res, err := decode(dec, data, t)

	return checkResult{res: res, err: err}
}
