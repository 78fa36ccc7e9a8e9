package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"github.com/WangWilly/stockPulse/pkgs/clipkg/config"
	"github.com/WangWilly/stockPulse/pkgs/clipkg/helpers/enginehelper"
	"github.com/WangWilly/stockPulse/pkgs/commonpkg/clients/inferenceclient"
	"github.com/WangWilly/stockPulse/pkgs/enginepkg"
	"github.com/WangWilly/stockPulse/pkgs/logger"
	"github.com/WangWilly/stockPulse/pkgs/scorepkg"
	"github.com/gookit/color"
	log "github.com/sirupsen/logrus"
)

func main() {
	println("stockPulse - semantic comment search")

	////////////////////////////////////////////////////////////////////////////
	// Command Line Arguments Setup
	////////////////////////////////////////////////////////////////////////////
	var confPath string
	var archivePath string
	var query string
	var keyword string
	var topK int
	var isDebug bool

	flag.StringVar(&confPath, "conf", "", "path to config file (default: ~/.stock_pulse/conf.yaml)")
	flag.StringVar(&archivePath, "archive", "", "path to the scraped comment archive (JSON)")
	flag.StringVar(&query, "query", "", "free-text query to search the corpus with")
	flag.StringVar(&keyword, "keyword", "", "substring pre-filter applied before the semantic search")
	flag.IntVar(&topK, "top", 0, "maximum results to print (0 uses the configured value)")
	flag.BoolVar(&isDebug, "debug", false, "display debug message")
	flag.Parse()

	if archivePath == "" || query == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()

	////////////////////////////////////////////////////////////////////////////
	// Logger Initialization
	////////////////////////////////////////////////////////////////////////////
	appRootPath, confPath := resolvePaths(confPath)
	logPath := filepath.Join(appRootPath, "stock_pulse.log")
	logFile, err := os.OpenFile(logPath, os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		log.Fatalln("failed to create log file:", err)
	}
	defer logFile.Close()
	logger.InitLogger(isDebug, logFile)

	// Configuration Loading
	conf, err := loadConfig(confPath)
	if err != nil {
		log.Fatalln("failed to load config:", err)
	}
	log.Infoln("config is loaded")

	////////////////////////////////////////////////////////////////////////////
	// Engine Setup
	////////////////////////////////////////////////////////////////////////////
	helper, err := enginehelper.New(conf, conf.Cache.CommentTable, scorepkg.CommentHeuristic())
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

	corpus, err := enginepkg.LoadArchive(archivePath)
	if err != nil {
		log.Fatalln("failed to load archive:", err)
	}
	if keyword != "" {
		corpus = enginepkg.SearchKeyword(corpus, keyword)
		log.WithField("remaining", len(corpus)).Infoln("keyword pre-filter applied")
	}

	if topK <= 0 {
		topK = conf.Search.TopK
	}

	////////////////////////////////////////////////////////////////////////////
	// Search
	////////////////////////////////////////////////////////////////////////////
	results, err := helper.Engine.Rank(ctx, corpus, query, topK)
	if err != nil {
		log.Fatalln("search failed:", err)
	}

	if len(results) == 0 {
		color.Yellow.Println("no comments matched the query")
		return
	}

	color.Green.Printf("top %d of %d comments for %q\n\n", len(results), len(corpus), query)
	for i, res := range results {
		color.Cyan.Printf("#%d  combined=%.3f  similarity=%.3f  quality=%.2f\n",
			i+1, res.Combined, res.Similarity, res.Quality)
		color.Gray.Printf("    %s @ %s\n", res.Item.Author, res.Item.PublishTime)
		println("    " + res.Item.NormalizedContent)
		println()
	}
}

////////////////////////////////////////////////////////////////////////////////

func resolvePaths(confPath string) (string, string) {
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
	return appRootPath, confPath
}

func loadConfig(confPath string) (*config.Config, error) {
	conf, err := config.ParseConfigFromFile(confPath)
	if os.IsNotExist(err) {
		conf = config.Default()
		if conf.Database.Path == "stockPulse.db" {
			conf.Database.Path = filepath.Join(filepath.Dir(confPath), "stockPulse.db")
		}
		return conf, config.WriteConfig(confPath, conf)
	}
	return conf, err
}
