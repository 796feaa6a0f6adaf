package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/skyline-trips/internal/client/api"
	"github.com/magabrotheeeer/skyline-trips/internal/client/store"
	"github.com/magabrotheeeer/skyline-trips/internal/models"
)

func newListCommand(a *app) *cobra.Command {
	var (
		filter string
		p      api.ListParams
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List vacations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			p.Filter = models.Filter(filter)
			if err := a.check(store.NewLoader(a.state, a.client).Load(a.ctx(cmd), p)); err != nil {
				return err
			}
			printVacations(out(cmd), a.state.Vacations())
			pg := a.state.Pagination()
			fmt.Fprintf(out(cmd), "page %d of %d, %d vacations\n", pg.Page, pg.TotalPages, pg.TotalCount)
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "all, liked, active or upcoming")
	cmd.Flags().IntVar(&p.Page, "page", 0, "page number, starting from 1")
	cmd.Flags().IntVar(&p.PageSize, "page-size", 0, "vacations per page")
	return cmd
}

func newShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one vacation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			v, err := a.client.GetVacation(a.ctx(cmd), args[0])
			if err = a.check(err); err != nil {
				return err
			}
			printVacations(out(cmd), []models.VacationView{*v})
			fmt.Fprintf(out(cmd), "\n%s\n%s\n", v.Description, v.ImageURL)
			return nil
		},
	}
}

// newLikeCommand like при like=true, иначе unlike. Команда сначала загружает отпуск,
// чтобы переключение шло от актуального состояния.
func newLikeCommand(a *app, like bool) *cobra.Command {
	use, short := "unlike <id>", "Remove your like"
	if like {
		use, short = "like <id>", "Like a vacation"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			id := args[0]
			current, err := a.client.GetVacation(a.ctx(cmd), id)
			if err = a.check(err); err != nil {
				return err
			}
			a.state.Upsert(*current)

			if current.LikedByMe == like {
				fmt.Fprintf(out(cmd), "%s: nothing to do, %d likes\n", current.Destination, current.LikesCount)
				return nil
			}
			v, err := store.NewReconciler(a.state, a.client, a.log).ToggleLike(a.ctx(cmd), id)
			if err = a.check(err); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "%s: %d likes, liked by me: %t\n", v.Destination, v.LikesCount, v.LikedByMe)
			return nil
		},
	}
}

type vacationFlags struct {
	in        models.VacationInput
	price     float64
	imagePath string
}

func (f *vacationFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.in.Destination, "destination", "", "destination")
	cmd.Flags().StringVar(&f.in.Description, "description", "", "description")
	cmd.Flags().StringVar(&f.in.StartDate, "start", "", "start date, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.in.EndDate, "end", "", "end date, YYYY-MM-DD")
	cmd.Flags().Float64Var(&f.price, "price", 0, "price")
	cmd.Flags().StringVar(&f.imagePath, "image", "", "path to the image file")
}

func (f *vacationFlags) input(cmd *cobra.Command) models.VacationInput {
	in := f.in
	if cmd.Flags().Changed("price") {
		price := f.price
		in.Price = &price
	}
	return in
}

func (f *vacationFlags) image() (*api.Image, error) {
	if f.imagePath == "" {
		return nil, nil
	}
	data, err := os.ReadFile(f.imagePath)
	if err != nil {
		return nil, err
	}
	return &api.Image{Name: filepath.Base(f.imagePath), Data: data}, nil
}

func newCreateCommand(a *app) *cobra.Command {
	var f vacationFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a vacation (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			img, err := f.image()
			if err != nil {
				return err
			}
			if img == nil {
				return errors.New("--image is required")
			}
			v, err := a.client.CreateVacation(a.ctx(cmd), f.input(cmd), img)
			if err = a.check(err); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "created %s\n", v.ID)
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}

func newUpdateCommand(a *app) *cobra.Command {
	var f vacationFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a vacation (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			img, err := f.image()
			if err != nil {
				return err
			}
			v, err := a.client.UpdateVacation(a.ctx(cmd), args[0], f.input(cmd), img)
			if err = a.check(err); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "updated %s\n", v.ID)
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}

func newDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a vacation (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			if err := a.check(a.client.DeleteVacation(a.ctx(cmd), args[0])); err != nil {
				return err
			}
			a.state.Remove(args[0])
			fmt.Fprintf(out(cmd), "deleted %s\n", args[0])
			return nil
		},
	}
}

func newReportCommand(a *app) *cobra.Command {
	var (
		asCSV   bool
		outFile string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Likes per destination (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			if asCSV {
				body, err := a.client.ReportCSV(a.ctx(cmd))
				if err = a.check(err); err != nil {
					return err
				}
				if outFile != "" {
					return os.WriteFile(outFile, body, 0o644)
				}
				_, err = out(cmd).Write(body)
				return err
			}

			rows, err := a.client.Report(a.ctx(cmd))
			if err = a.check(err); err != nil {
				return err
			}
			tw := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DESTINATION\tLIKES")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%d\n", r.Destination, r.Likes)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asCSV, "csv", false, "download the CSV file")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "write the CSV to a file")
	return cmd
}

func printVacations(w io.Writer, vs []models.VacationView) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDESTINATION\tDATES\tPRICE\tLIKES\tLIKED")
	for _, v := range vs {
		fmt.Fprintf(tw, "%s\t%s\t%s..%s\t%.2f\t%d\t%t\n",
			v.ID, v.Destination, v.StartDate, v.EndDate, v.Price, v.LikesCount, v.LikedByMe)
	}
	_ = tw.Flush()
}
