package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"vendas-report/config"
	db "vendas-report/database"
	"vendas-report/processor"
	"vendas-report/routes"
	"vendas-report/store"
	"vendas-report/tablestr"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// With file arguments, run one batch locally and print the tables.
	if len(os.Args) > 1 {
		runLocal(os.Args[1:], cfg)
		return
	}

	if err := db.Init(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}

	server := gin.Default()
	routes.RegisterRoutes(server, store.New(cfg.DatasetTTL()), cfg)

	log.Info().Str("port", cfg.ServerPort).Msg("Starting sales report service")
	if err := server.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

func runLocal(paths []string, cfg *config.Config) {
	files := make([]processor.InputFile, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			log.Fatal().Err(err).Str("file", path).Msg("Failed to read capture file")
		}
		files = append(files, processor.InputFile{
			Name:    filepath.Base(path),
			Content: content,
		})
	}

	report, err := processor.ProcessBatch(context.Background(), files, cfg.Aggregate())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to process capture files")
	}

	tables := report.Tables()
	printTable("Lançamentos", tables.Orders.Headers, tables.Orders.Rows)
	printTable("Mesas cadastradas", tables.Registrations.Headers, tables.Registrations.Rows)
	printTable("Itens deletados", tables.Deletions.Headers, tables.Deletions.Rows)
	printTable("Geral", tables.Summary.Headers, tables.Summary.Rows)
	printTable("Ranking", tables.Ranking.Headers, tables.Ranking.Rows)
}

func printTable(name string, headers []string, rows [][]string) {
	t := tablestr.New()
	if err := t.SetHeaders(headers); err != nil {
		log.Error().Err(err).Str("table", name).Msg("Failed to render table")
		return
	}
	t.SetRows(rows)

	str, err := t.String()
	if err != nil {
		log.Error().Err(err).Str("table", name).Msg("Failed to render table")
		return
	}
	log.Info().Msg(name + str)
}
