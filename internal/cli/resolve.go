package cli

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/huh"

	"github.com/dbarros/tally/internal/domain"
)

// resolveFilter turns the raw flag values into a task filter with concrete
// directory entries. Search strings matching more than one entry are
// disambiguated with a prompt when running interactively, and rejected
// otherwise so scripted runs stay deterministic.
func resolveFilter(app *App, opts reportOptions) (domain.TaskFilter, error) {
	dir := app.Service.Directory()
	filter := domain.TaskFilter{TaskType: opts.taskType}

	if opts.project != "" {
		matches := dir.FindProjects(opts.project)
		sort.Slice(matches, func(i, j int) bool { return matches[i].Description < matches[j].Description })
		project, err := pickOne(app, "project", opts.project, matches, func(p domain.Project) string {
			return p.Description
		})
		if err != nil {
			return domain.TaskFilter{}, err
		}
		filter.Project = &project
	}

	if opts.customer != "" {
		matches := dir.FindCustomers(opts.customer)
		sort.Slice(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })
		customer, err := pickOne(app, "customer", opts.customer, matches, func(c domain.Customer) string {
			return c.Name
		})
		if err != nil {
			return domain.TaskFilter{}, err
		}
		filter.Customer = &customer
	}

	if opts.user != "" {
		user, ok := dir.FindUserByLogin(opts.user)
		if !ok {
			return domain.TaskFilter{}, fmt.Errorf("no user with login %q", opts.user)
		}
		filter.User = &user
	}

	return filter, nil
}

// pickOne reduces a match list to a single entry, prompting when there is a
// choice to make and a terminal to make it on.
func pickOne[T any](app *App, kind, query string, matches []T, label func(T) string) (T, error) {
	var zero T
	switch len(matches) {
	case 0:
		return zero, fmt.Errorf("no %s matches %q", kind, query)
	case 1:
		return matches[0], nil
	}

	if app.IsInteractive == nil || !app.IsInteractive() {
		return zero, fmt.Errorf("%d %ss match %q; add more comma-separated terms to narrow it down", len(matches), kind, query)
	}

	options := make([]huh.Option[int], len(matches))
	for i, m := range matches {
		options[i] = huh.NewOption(label(m), i)
	}

	var idx int
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[int]().
			Title(fmt.Sprintf("Several %ss match %q", kind, query)).
			Options(options...).
			Value(&idx),
	))
	if err := form.Run(); err != nil {
		return zero, err
	}
	return matches[idx], nil
}
