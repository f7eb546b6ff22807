package source

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/arwindpianist/showcase/internal/entity"
	"github.com/arwindpianist/showcase/internal/htmlmeta"
	"github.com/arwindpianist/showcase/internal/utils"
)

type ProberConfig struct {
	BaseDomains []string
	Labels      []string
	Concurrency int
}

// Prober checks a fixed set of label.domain hosts for a live site.
type Prober struct {
	cfg     ProberConfig
	client  *http.Client
	scraper *htmlmeta.Scraper
}

func NewProber(cfg ProberConfig, client *http.Client, scraper *htmlmeta.Scraper) *Prober {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 8
	}
	if client == nil {
		client = &http.Client{}
	}
	if scraper == nil {
		scraper = htmlmeta.NewScraper(client)
	}
	return &Prober{cfg: cfg, client: client, scraper: scraper}
}

type probeTarget struct {
	label string
	host  string
}

func (p *Prober) targets() []probeTarget {
	var out []probeTarget
	for _, domain := range p.cfg.BaseDomains {
		domain = strings.ToLower(strings.Trim(strings.TrimSpace(domain), "."))
		if domain == "" {
			continue
		}
		for _, label := range p.cfg.Labels {
			label = strings.ToLower(strings.TrimSpace(label))
			if label == "" {
				continue
			}
			out = append(out, probeTarget{label: label, host: label + "." + domain})
		}
	}
	return lo.UniqBy(out, func(t probeTarget) string { return t.host })
}

// Probe returns a candidate for every reachable host, ordered by base domain
// and then by label as configured.
func (p *Prober) Probe(ctx context.Context) []*entity.ProjectCandidate {
	targets := p.targets()
	found := make([]*entity.ProjectCandidate, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Concurrency)
	for i, t := range targets {
		g.Go(func() error {
			found[i] = p.probe(gctx, t)
			return nil
		})
	}
	_ = g.Wait()

	return lo.Compact(found)
}

func (p *Prober) probe(ctx context.Context, t probeTarget) *entity.ProjectCandidate {
	log := zerolog.Ctx(ctx).With().Str("host", t.host).Logger()
	url := "https://" + t.host

	if err := p.head(ctx, url); err != nil {
		log.Debug().Err(err).Msg("probe miss")
		return nil
	}

	c := &entity.ProjectCandidate{
		Title:       utils.Titleize(t.label),
		Description: "Live project at " + t.host,
		URL:         url,
		Source:      entity.SourceProbe,
	}
	if m := p.scraper.Fetch(ctx, url); m != nil {
		if m.Title != "" {
			c.Title = m.Title
		}
		if m.Description != "" {
			c.Description = m.Description
		}
	}
	log.Debug().Str("title", c.Title).Msg("probe hit")
	return c
}

// head succeeds when the final status is below 400, or 405 for servers that
// refuse HEAD.
func (p *Prober) head(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()

	if resp.StatusCode < 400 || resp.StatusCode == http.StatusMethodNotAllowed {
		return nil
	}
	return &StatusError{URL: url, Status: resp.StatusCode}
}
