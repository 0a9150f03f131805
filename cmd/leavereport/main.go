package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-hrdash/internal/config"
	"go-hrdash/internal/hrapi"
	"go-hrdash/internal/leave"
	"go-hrdash/internal/leavereport"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	var (
		employeeID = flag.String("employee", "", "employee id (required)")
		category   = flag.String("category", "", "leave category; empty for all summary categories")
		year       = flag.Int("year", time.Now().Year(), "calendar year")
		format     = flag.String("format", leavereport.FormatTable, "output format: table, csv or pdf")
		outPath    = flag.String("out", "", "write to this file instead of stdout")
	)
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if *employeeID == "" {
		fmt.Fprintln(os.Stderr, "leavereport: -employee is required")
		flag.Usage()
		os.Exit(2)
	}

	q := leavereport.Query{EmployeeID: *employeeID, Year: *year}
	if *category != "" {
		c, ok := leave.ParseCategory(*category)
		if !ok {
			fmt.Fprintf(os.Stderr, "leavereport: unknown category %q\n", *category)
			os.Exit(2)
		}
		q.Category = c
	}

	cfg := config.Load()
	policy := leave.DefaultPolicy()
	if cfg.LeavePolicyFile != "" {
		if policy, err = leave.LoadPolicyFile(cfg.LeavePolicyFile); err != nil {
			logger.Fatal("load leave policy failed", zap.String("path", cfg.LeavePolicyFile), zap.Error(err))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := hrapi.NewClient(cfg.HRAPIBaseURL, cfg.HRAPIToken, cfg.HRAPITimeout, logger)
	report, err := leavereport.Build(ctx, client, q, policy, logger)
	if err != nil {
		logger.Fatal("build report failed", zap.Error(err))
	}

	var out io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			logger.Fatal("create output file failed", zap.String("path", *outPath), zap.Error(err))
		}
		defer f.Close()
		out = f
	}

	if err := leavereport.Write(out, report, *format); err != nil {
		logger.Fatal("write report failed", zap.String("format", *format), zap.Error(err))
	}
}
