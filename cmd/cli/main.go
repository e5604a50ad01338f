package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/jeovahfialho/stock-dashboard/internal/config"
	"github.com/jeovahfialho/stock-dashboard/internal/domain"
	"github.com/jeovahfialho/stock-dashboard/internal/export"
	"github.com/jeovahfialho/stock-dashboard/internal/service"
	"github.com/jeovahfialho/stock-dashboard/internal/storage"
	"github.com/jeovahfialho/stock-dashboard/internal/storage/cache"
	pkglogger "github.com/jeovahfialho/stock-dashboard/pkg/logger"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "stock-dashboard",
		Short: "Stock Dashboard CLI",
		Long: `CLI para consultar os snapshots diários de ações.
Lê a mesma tabela que a API, configurada por STORE_URL e STORE_API_KEY.`,
		SilenceUsage: true,
	}

	// Comando dates
	var datesCmd = &cobra.Command{
		Use:   "dates",
		Short: "Lista as datas disponíveis",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listDates(cmd.Context())
		},
	}

	// Comando stocks
	var stocksCmd = &cobra.Command{
		Use:   "stocks",
		Short: "Mostra os snapshots de uma data ou os mais recentes",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, _ := cmd.Flags().GetString("date")
			limit, _ := cmd.Flags().GetInt("limit")
			return showStocks(cmd.Context(), date, limit)
		},
	}

	stocksCmd.Flags().StringP("date", "d", "", "Data (YYYY-MM-DD)")
	stocksCmd.Flags().IntP("limit", "l", 0, "Máximo de linhas quando --date é omitido")

	// Comando stats
	var statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Mostra as estatísticas de uma data (padrão: mais recente)",
		RunE: func(cmd *cobra.Command, args []string) error {
			date, _ := cmd.Flags().GetString("date")
			return showStats(cmd.Context(), date)
		},
	}

	statsCmd.Flags().StringP("date", "d", "", "Data (YYYY-MM-DD)")

	// Comando export
	var exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Exporta snapshots para arquivo, um por data",
		Long: `Exporta os snapshots em csv, json, parquet ou xlsx.
Sem --date nem --all, exporta só a data mais recente.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dates, _ := cmd.Flags().GetStringSlice("date")
			all, _ := cmd.Flags().GetBool("all")
			format, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")
			workers, _ := cmd.Flags().GetInt("workers")
			return exportStocks(cmd.Context(), dates, all, format, output, workers)
		},
	}

	exportCmd.Flags().StringSliceP("date", "d", nil, "Datas (YYYY-MM-DD), repetível")
	exportCmd.Flags().BoolP("all", "a", false, "Exporta todas as datas disponíveis")
	exportCmd.Flags().StringP("format", "f", "csv", "Formato: "+strings.Join(export.Formats, ", "))
	exportCmd.Flags().StringP("output", "o", "./export", "Diretório de saída")
	exportCmd.Flags().IntP("workers", "w", 0, "Workers paralelos (padrão: EXPORT_WORKERS)")

	// Comando health
	var healthCmd = &cobra.Command{
		Use:   "health",
		Short: "Verifica saúde do sistema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkHealth(cmd.Context())
		},
	}

	// Adiciona todos os comandos
	rootCmd.AddCommand(datesCmd, stocksCmd, statsCmd, exportCmd, healthCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// setup carrega a configuração e abre o banco. O chamador fecha o store.
func setup() (*config.Config, domain.SnapshotStore, *service.StockService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	if err := pkglogger.Init(cfg.LogLevel, cfg.Development(), cfg.LogFile); err != nil {
		return nil, nil, nil, fmt.Errorf("erro ao inicializar logger: %w", err)
	}

	store, err := storage.Open(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	return cfg, store, service.NewStockService(store, cfg.DefaultLimit, cfg.MaxLimit), nil
}

func listDates(ctx context.Context) error {
	_, store, svc, err := setup()
	if err != nil {
		return err
	}
	defer store.Close()

	dates, err := svc.GetAvailableDates(ctx)
	if err != nil {
		return err
	}

	if len(dates) == 0 {
		fmt.Println("📭 Nenhuma data disponível")
		return nil
	}

	fmt.Printf("📅 %d datas disponíveis:\n", len(dates))
	for _, d := range dates {
		fmt.Printf("   - %s\n", d)
	}
	return nil
}

func showStocks(ctx context.Context, dateStr string, limit int) error {
	_, store, svc, err := setup()
	if err != nil {
		return err
	}
	defer store.Close()

	var rows []domain.Snapshot
	if dateStr != "" {
		date, err := domain.ParseDate(dateStr)
		if err != nil {
			return err
		}
		fmt.Printf("🔍 Buscando ações de %s...\n\n", date)
		rows, err = svc.GetStocksByDate(ctx, date)
		if err != nil {
			return err
		}
	} else {
		fmt.Printf("🔍 Buscando ações mais recentes (limite %d)...\n\n", svc.ClampLimit(limit))
		rows, err = svc.GetLatestStocks(ctx, limit)
		if err != nil {
			return err
		}
	}

	if len(rows) == 0 {
		fmt.Println("📭 Nenhum dado encontrado")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "CÓDIGO\tNOME\tPREÇO\tVARIAÇÃO\tLEILÃO\tP/L TTM\tVOL. RELATIVO\tDATA\t")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			r.Symbol(),
			r.StockName.String,
			decimalOrDash(r.LatestPrice, ""),
			decimalOrDash(r.LatestChangePct, "%"),
			decimalOrDash(r.AuctionChangePct, "%"),
			decimalOrDash(r.PETTM, ""),
			decimalOrDash(r.VolumeRatio, ""),
			r.UpdateDate,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n✅ %d linhas\n", len(rows))
	return nil
}

func showStats(ctx context.Context, dateStr string) error {
	_, store, svc, err := setup()
	if err != nil {
		return err
	}
	defer store.Close()

	var date *domain.Date
	label := "data mais recente"
	if dateStr != "" {
		d, err := domain.ParseDate(dateStr)
		if err != nil {
			return err
		}
		date = &d
		label = d.String()
	}

	stats, err := svc.GetStockStats(ctx, date)
	if err != nil {
		return err
	}

	fmt.Printf("📊 Estatísticas (%s):\n", label)
	fmt.Printf("├─ Total de ações: %d\n", stats.TotalCount)
	fmt.Printf("├─ Em alta: %d (%s%%)\n", stats.PositiveCount, stats.PositiveShare().StringFixed(1))
	fmt.Printf("├─ Em baixa: %d (%s%%)\n", stats.NegativeCount, stats.NegativeShare().StringFixed(1))
	fmt.Printf("└─ Variação média: %s%%\n", stats.AvgChangePct.StringFixed(2))

	return nil
}

func exportStocks(ctx context.Context, dateStrs []string, all bool, format, output string, workers int) error {
	saver, err := export.NewSaver(format)
	if err != nil {
		return err
	}

	cfg, store, svc, err := setup()
	if err != nil {
		return err
	}
	defer store.Close()

	var dates []domain.Date
	switch {
	case len(dateStrs) > 0:
		for _, s := range dateStrs {
			d, err := domain.ParseDate(s)
			if err != nil {
				return err
			}
			dates = append(dates, d)
		}
	default:
		available, err := svc.GetAvailableDates(ctx)
		if err != nil {
			return err
		}
		if !all && len(available) > 1 {
			available = available[:1]
		}
		for _, s := range available {
			d, err := domain.ParseDate(s)
			if err != nil {
				return err
			}
			dates = append(dates, d)
		}
	}

	if len(dates) == 0 {
		fmt.Println("📭 Nenhuma data para exportar")
		return nil
	}

	if workers <= 0 {
		workers = cfg.ExportWorkers
	}

	fmt.Printf("🚀 Exportando %d datas em %s para %s (%d workers)...\n", len(dates), saver.Extension(), output, workers)
	start := time.Now()

	exporter := export.NewExporter(svc, saver, output, workers)
	results, err := exporter.Export(ctx, dates)

	for _, r := range results {
		if r.Error != nil {
			fmt.Printf("❌ %s: %v\n", r.Date, r.Error)
			continue
		}
		fmt.Printf("✅ %s: %d linhas → %s\n", r.Date, r.Count, r.Path)
	}

	if err != nil {
		return err
	}

	fmt.Printf("\n🎉 Exportação concluída em %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}

func checkHealth(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Println("🏥 Verificando saúde do sistema...")
	fmt.Println()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var failed []string

	// Testa o banco
	fmt.Print("Banco: ")
	store, err := storage.Open(cfg)
	if err != nil {
		fmt.Printf("❌ Erro: %v\n", err)
		failed = append(failed, "banco")
	} else {
		defer store.Close()

		if err := store.HealthCheck(ctx); err != nil {
			fmt.Printf("❌ Erro na consulta: %v\n", err)
			failed = append(failed, "banco")
		} else {
			fmt.Println("✅ OK")
		}
	}

	// Testa Redis
	fmt.Print("Redis: ")
	if cfg.RedisURL == "" {
		fmt.Println("⚪ Não configurado")
	} else if redisStorage, err := cache.NewRedisStorage(cfg.RedisURL, cache.DefaultPrefix); err != nil {
		fmt.Printf("❌ Erro: %v\n", err)
		failed = append(failed, "redis")
	} else {
		defer redisStorage.Close()

		if err := redisStorage.HealthCheck(ctx); err != nil {
			fmt.Printf("❌ Erro: %v\n", err)
			failed = append(failed, "redis")
		} else {
			fmt.Println("✅ OK")
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("verificação falhou: %s", strings.Join(failed, ", "))
	}

	fmt.Println("\n✅ Verificação concluída!")
	return nil
}

func decimalOrDash(d decimal.NullDecimal, suffix string) string {
	if !d.Valid {
		return "-"
	}
	return d.Decimal.StringFixed(2) + suffix
}
