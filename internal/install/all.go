package install

import (
	"sort"
	"sync"

	"github.com/ksyq12/certinstall/internal/config"
	"github.com/ksyq12/certinstall/internal/errors"
	"github.com/ksyq12/certinstall/internal/logger"
)

// DomainResult pairs a domain with the outcome of its run.
type DomainResult struct {
	Result *Result
	Err    error
	Domain string
}

// All installs every configured domain. Domains are independent: each has
// its own staging area, so they are processed by a bounded worker pool. One
// domain failing does not stop the others; the caller decides how to report
// the collected failures.
func (in *Installer) All(opts Options) ([]DomainResult, error) {
	domains, err := config.ListDomains(in.workdir)
	if err != nil {
		return nil, err
	}
	if len(domains) == 0 {
		return nil, errors.Config("no domains configured under %s", in.workdir)
	}

	workers := in.cfg.Concurrency
	if workers < 1 {
		workers = 1
	}
	if workers > len(domains) {
		workers = len(domains)
	}
	logger.Debug("installing %d domains with %d workers", len(domains), workers)

	jobs := make(chan string)
	results := make(chan DomainResult)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range jobs {
				res, err := in.Domain(name, opts)
				results <- DomainResult{Domain: name, Result: res, Err: err}
			}
		}()
	}

	go func() {
		for _, name := range domains {
			jobs <- name
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	collected := make([]DomainResult, 0, len(domains))
	for r := range results {
		collected = append(collected, r)
	}
	sort.Slice(collected, func(i, j int) bool { return collected[i].Domain < collected[j].Domain })
	return collected, nil
}
