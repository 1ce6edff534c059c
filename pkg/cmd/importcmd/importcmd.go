package importcmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/clash-manager-go/log"
	"github.com/mpapenbr/clash-manager-go/pkg/cmd/app"
	"github.com/mpapenbr/clash-manager-go/pkg/importer"
	"github.com/mpapenbr/clash-manager-go/pkg/model"
)

// importFunc has the shape of the method expressions of importer.Importer.
type importFunc func(imp *importer.Importer, ctx context.Context, src io.Reader) (*importer.Result, error)

func NewImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "imports csv sheets",
	}
	cmd.AddCommand(
		newCmd("drivers FILE", "imports drivers", cobra.ExactArgs(1),
			func(args []string) (importFunc, error) {
				return (*importer.Importer).Drivers, nil
			}),
		newCmd("components [TYPE] FILE",
			"imports components, without TYPE the sheet needs a Type column",
			cobra.RangeArgs(1, 2),
			func(args []string) (importFunc, error) {
				ct, err := typeArg(args)
				if err != nil {
					return nil, err
				}
				return func(imp *importer.Importer, ctx context.Context, src io.Reader) (*importer.Result, error) {
					return imp.Components(ctx, ct, src)
				}, nil
			}),
		newCmd("driver-levels FILE", "imports the level table of drivers", cobra.ExactArgs(1),
			func(args []string) (importFunc, error) {
				return (*importer.Importer).DriverLevels, nil
			}),
		newCmd("component-levels [TYPE] FILE", "imports the level table of components",
			cobra.RangeArgs(1, 2),
			func(args []string) (importFunc, error) {
				ct, err := typeArg(args)
				if err != nil {
					return nil, err
				}
				return func(imp *importer.Importer, ctx context.Context, src io.Reader) (*importer.Result, error) {
					return imp.ComponentLevels(ctx, ct, src)
				}, nil
			}),
		newCmd("series FILE", "imports the series catalog", cobra.ExactArgs(1),
			func(args []string) (importFunc, error) {
				return (*importer.Importer).Series, nil
			}),
		newCmd("series-setups FILE", "imports the component setups per series", cobra.ExactArgs(1),
			func(args []string) (importFunc, error) {
				return (*importer.Importer).SeriesSetups, nil
			}),
		newCmd("tracks FILE", "imports tracks", cobra.ExactArgs(1),
			func(args []string) (importFunc, error) {
				return (*importer.Importer).Tracks, nil
			}),
	)
	return cmd
}

// typeArg returns the optional leading component type argument.
func typeArg(args []string) (model.ComponentType, error) {
	if len(args) < 2 {
		return "", nil
	}
	return model.ParseComponentType(args[0])
}

func newCmd(
	use, short string,
	argCheck cobra.PositionalArgs,
	resolve func(args []string) (importFunc, error),
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  argCheck,
		RunE: func(cmd *cobra.Command, args []string) error {
			fn, err := resolve(args)
			if err != nil {
				return err
			}
			return app.Run(cmd, func(ctx context.Context, a *app.App) error {
				return run(ctx, cmd, a, args[len(args)-1], fn)
			})
		},
	}
}

func run(ctx context.Context, cmd *cobra.Command, a *app.App, fileName string, fn importFunc) error {
	f, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := fn(importer.New(a.Store), ctx, f)
	if err != nil {
		return fmt.Errorf("%s: %w", fileName, err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d rows imported, %d rejected\n", fileName, res.Imported, len(res.Errors))
	for _, e := range res.Errors {
		fmt.Fprintf(out, "  %v\n", e)
	}
	if _, err := a.Catalog.Refresh(ctx); err != nil {
		log.Warn("catalog refresh failed", log.ErrorField(err))
	}
	return nil
}
