package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"

	"github.com/WangWilly/stockPulse/pkgs/clipkg/config"
	"github.com/WangWilly/stockPulse/pkgs/clipkg/helpers/enginehelper"
	"github.com/WangWilly/stockPulse/pkgs/commonpkg/clients/inferenceclient"
	"github.com/WangWilly/stockPulse/pkgs/commonpkg/model"
	"github.com/WangWilly/stockPulse/pkgs/enginepkg"
	"github.com/WangWilly/stockPulse/pkgs/logger"
	"github.com/WangWilly/stockPulse/pkgs/scorepkg"
	"github.com/gookit/color"
	log "github.com/sirupsen/logrus"
)

func main() {
	println("stockPulse - comment quality scorer")

	////////////////////////////////////////////////////////////////////////////
	// Command Line Arguments Setup
	////////////////////////////////////////////////////////////////////////////
	var confPath string
	var archivePath string
	var outPath string
	var topN int
	var topPercentage int
	var asArticles bool
	var clearCache bool
	var isDebug bool

	flag.StringVar(&confPath, "conf", "", "path to config file (default: ~/.stock_pulse/conf.yaml)")
	flag.StringVar(&archivePath, "archive", "", "path to the scraped comment archive (JSON)")
	flag.StringVar(&outPath, "out", "", "write the full ranked output as JSON to this path")
	flag.IntVar(&topN, "top", 0, "keep the N best comments (overrides percentage)")
	flag.IntVar(&topPercentage, "percent", 0, "keep the best X percent of comments")
	flag.BoolVar(&asArticles, "articles", false, "score long-form articles instead of comments")
	flag.BoolVar(&clearCache, "clear-cache", false, "drop the embedding cache namespace and exit")
	flag.BoolVar(&isDebug, "debug", false, "display debug message")
	flag.Parse()

	if archivePath == "" && !clearCache {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()

	////////////////////////////////////////////////////////////////////////////
	// Logger Initialization
	////////////////////////////////////////////////////////////////////////////
	homepath := os.Getenv("HOME")
	if homepath == "" {
		panic("failed to get home path from env")
	}
	appRootPath := filepath.Join(homepath, ".stock_pulse")
	if err := os.MkdirAll(appRootPath, 0755); err != nil {
		log.Fatalln("failed to make app dir", err)
	}
	if confPath == "" {
		confPath = filepath.Join(appRootPath, "conf.yaml")
	}

	logPath := filepath.Join(appRootPath, "stock_pulse.log")
	logFile, err := os.OpenFile(logPath, os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		log.Fatalln("failed to create log file:", err)
	}
	defer logFile.Close()
	logger.InitLogger(isDebug, logFile)

	// Configuration Loading
	conf, err := config.ParseConfigFromFile(confPath)
	if os.IsNotExist(err) {
		conf = config.Default()
		conf.Database.Path = filepath.Join(appRootPath, "stockPulse.db")
		if werr := config.WriteConfig(confPath, conf); werr != nil {
			log.Fatalln("failed to write default config:", werr)
		}
	} else if err != nil {
		log.Fatalln("failed to load config:", err)
	}
	log.Infoln("config is loaded")

	////////////////////////////////////////////////////////////////////////////
	// Engine Setup
	////////////////////////////////////////////////////////////////////////////
	cacheTable := conf.Cache.CommentTable
	heuristic := scorepkg.CommentHeuristic()
	if asArticles {
		cacheTable = conf.Cache.ArticleTable
		heuristic = scorepkg.ArticleHeuristic()
	}

	helper, err := enginehelper.New(conf, cacheTable, heuristic)
	if err != nil {
		log.Fatalln("failed to build engine:", err)
	}
	defer helper.Close()

	// set logger to the inference client
	clientLogFile, err := os.OpenFile(filepath.Join(appRootPath, "client.log"), os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		log.Fatalln("failed to create log file:", err)
	}
	defer clientLogFile.Close()
	inferenceclient.SetInferenceClientLogger(helper.Client, clientLogFile)

	if clearCache {
		if err := helper.Store.Clear(ctx); err != nil {
			log.Fatalln("failed to clear embedding cache:", err)
		}
		color.Green.Println("embedding cache cleared: " + cacheTable)
		return
	}

	corpus, err := enginepkg.LoadArchive(archivePath)
	if err != nil {
		log.Fatalln("failed to load archive:", err)
	}

	if topN <= 0 && topPercentage <= 0 {
		topN = conf.Search.TopN
		topPercentage = conf.Search.TopPercentage
	}

	////////////////////////////////////////////////////////////////////////////
	// Scoring
	////////////////////////////////////////////////////////////////////////////
	ranked, authors, err := helper.Engine.ScoreAndRank(
		ctx, corpus,
		topN, topPercentage,
		conf.Search.MinContributions, conf.Search.TopAuthors,
	)
	if err != nil {
		log.Fatalln("scoring failed:", err)
	}

	printRanked(ranked, len(corpus))
	printAuthors(authors)

	if outPath != "" {
		if err := writeOutput(outPath, ranked, authors); err != nil {
			log.Fatalln("failed to write output:", err)
		}
		color.Green.Println("results written to " + outPath)
	}
}

////////////////////////////////////////////////////////////////////////////////

func printRanked(ranked []*model.RankedComment, total int) {
	if len(ranked) == 0 {
		color.Yellow.Println("nothing to score")
		return
	}

	color.Green.Printf("top %d of %d comments by quality\n\n", len(ranked), total)
	for i, rc := range ranked {
		marker := ""
		if rc.Degraded {
			marker = "  (heuristic only)"
		}
		color.Cyan.Printf("#%d  score=%.2f%s\n", i+1, rc.Score, marker)
		color.Gray.Printf("    %s @ %s\n", rc.Item.Author, rc.Item.PublishTime)
		println("    " + rc.Item.NormalizedContent)
		println()
	}
}

func printAuthors(authors []model.AuthorScore) {
	if len(authors) == 0 {
		return
	}

	color.Green.Println("top authors by average quality")
	for i, a := range authors {
		color.Cyan.Printf("#%-2d  %-24s  avg=%.2f  posts=%d\n", i+1, a.Author, a.AvgQuality, a.Count)
	}
	println()
}

func writeOutput(path string, ranked []*model.RankedComment, authors []model.AuthorScore) error {
	out := struct {
		Comments []*model.RankedComment `json:"comments"`
		Authors  []model.AuthorScore    `json:"authors"`
	}{Comments: ranked, Authors: authors}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
