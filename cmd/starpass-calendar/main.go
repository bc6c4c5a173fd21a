package main

import (
	"context"
	"flag"
	"strings"
	"time"

	"starpass/internal/adapters/gcal"
	"starpass/internal/catalog"
	"starpass/internal/platform/config"
	"starpass/internal/platform/logger"
	"starpass/internal/services/calendar/domain"
	"starpass/internal/services/calendar/service"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	logger.Init(logger.FromEnv())
	l := logger.Get()

	var (
		fCalendar = flag.String("calendar", "", "calendar namespace from the catalog")
		fStart    = flag.String("start", "", "window start, RFC 3339")
		fEnd      = flag.String("end", "", "window end, RFC 3339")
		fQueries  = flag.String("queries", "", "optional comma-separated query override")
	)
	flag.Parse()

	if *fCalendar == "" {
		l.Fatal().Msg("must provide -calendar")
	}
	if *fStart == "" || *fEnd == "" {
		l.Fatal().Msg("must provide -start and -end")
	}
	start, err := time.Parse(time.RFC3339, *fStart)
	if err != nil {
		l.Fatal().Err(err).Msg("bad -start")
	}
	end, err := time.Parse(time.RFC3339, *fEnd)
	if err != nil {
		l.Fatal().Err(err).Msg("bad -end")
	}
	if end.Before(start) {
		l.Fatal().Str("start", *fStart).Str("end", *fEnd).Msg("-end before -start")
	}
	var override []string
	for _, q := range strings.Split(*fQueries, ",") {
		if q = strings.TrimSpace(q); q != "" {
			override = append(override, q)
		}
	}

	root := config.New()
	gcalCfg := root.Prefix("GCAL_")

	cat, err := catalog.Load(root.MayString("CATALOG_PATH", "config/catalog.yaml"))
	if err != nil {
		l.Fatal().Err(err).Msg("catalog load failed")
	}

	client := gcal.NewClient(gcal.Options{
		BaseURL: gcalCfg.MayString("BASE_URL", ""),
		APIKey:  gcalCfg.MayString("API_KEY", ""),
		Timeout: root.MayDuration("HTTP_TIMEOUT", 3*time.Second),
	})

	runID := uuid.NewString()
	ctx := logger.WithRun(context.Background(), runID)
	log := logger.C(ctx)
	log.Info().Str("calendar", *fCalendar).Str("start", *fStart).Str("end", *fEnd).Msg("calendar ingest starting")

	ing := &service.Ingester{
		Catalog:  cat,
		Source:   client,
		MinScore: root.MayFloat64("MATCH_MIN_SCORE", 0),
	}
	rows, err := ing.Ingest(ctx, *fCalendar, domain.Window{Min: start, Max: end}, override)
	if err != nil {
		log.Fatal().Err(err).Msg("ingest failed")
	}

	path, err := service.WriteCSV(rows, root.MayString("OUTPUT_DIR", "data/csv"), time.Now())
	if err != nil {
		log.Fatal().Err(err).Msg("csv write failed")
	}
	log.Info().Str("path", path).Int("rows", len(rows)).Msg("calendar ingest complete")
}
