package cli

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/storebox/internal/client/api"
	"github.com/dmitrijs2005/storebox/internal/client/models"
	"github.com/dmitrijs2005/storebox/internal/client/search"
)

// searchResultLimit caps how many matches one incremental query shows.
const searchResultLimit = 10

// Search runs an interactive search session. Every entered line updates the
// query; the lookup fires once the input has been quiet for the configured
// debounce interval. Entering "/N" opens the N-th result's category page,
// an empty line leaves the session.
func (a *App) Search(ctx context.Context) error {
	recent, err := a.store.SearchHistory.Recent(ctx, 5)
	if err != nil {
		log.Println(err.Error())
	}
	if len(recent) > 0 {
		queries := make([]string, 0, len(recent))
		for _, e := range recent {
			queries = append(queries, e.Query)
		}
		printlnFn("Recent searches: " + strings.Join(queries, ", "))
	}

	fetch := func(ctx context.Context, query string) ([]models.File, error) {
		return a.api.ListFiles(ctx, api.ListOptions{Search: query, Limit: searchResultLimit})
	}
	navigate := func(path string, query url.Values) {
		if len(query) == 0 {
			return
		}
		printlnFn("Opening " + path + "?" + query.Encode())
	}

	ctrl := search.NewController(fetch, navigate, a.config.SearchDebounce, a.logger)

	printlnFn("Type to search, /N to open result N, empty line to finish.")
	for {
		line, err := getSimpleText(a.reader, "search", os.Stdout)
		if err != nil {
			return err
		}

		if line == "" {
			ctrl.SetText("")
			return nil
		}

		if n, ok := strings.CutPrefix(line, "/"); ok {
			idx, err := strconv.Atoi(n)
			results := ctrl.Results()
			if err != nil || idx < 1 || idx > len(results) {
				printlnFn("No such result:", line)
				continue
			}
			ctrl.Select(results[idx-1])
			return nil
		}

		ctrl.SetText(line)
		a.waitSettled(ctrl)

		if err := ctrl.Err(); err != nil {
			log.Println(err.Error())
			continue
		}

		results := ctrl.Results()
		if len(results) == 0 {
			printlnFn("No matches.")
			continue
		}
		for i, f := range results {
			printlnFn(fmt.Sprintf("%2d. %-10s %s", i+1, f.Type, f.Name))
		}

		if err := a.store.SearchHistory.Add(ctx, line); err != nil {
			log.Println(err.Error())
		}
	}
}

// waitSettled blocks until the controller has left the pending and fetching
// states, or the request deadline passes.
func (a *App) waitSettled(ctrl *search.Controller) {
	deadline := time.Now().Add(a.config.SearchDebounce + a.config.RequestTimeout)
	for time.Now().Before(deadline) {
		switch ctrl.State() {
		case search.StatePending, search.StateFetching:
			time.Sleep(10 * time.Millisecond)
		default:
			return
		}
	}
}
