package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/WangWilly/stockPulse/pkgs/clipkg/config"
	"github.com/WangWilly/stockPulse/pkgs/commonpkg/clients/chromacommentclient"
	"github.com/WangWilly/stockPulse/pkgs/enginepkg"
	"github.com/WangWilly/stockPulse/pkgs/logger"
	"github.com/WangWilly/stockPulse/pkgs/workers"
	"github.com/gookit/color"
	log "github.com/sirupsen/logrus"
)

const EXPORT_BATCH_SIZE = 100

func main() {
	println("stockPulse - Chroma comment exporter")

	////////////////////////////////////////////////////////////////////////////
	// Command Line Arguments Setup
	////////////////////////////////////////////////////////////////////////////
	var confPath string
	var archivePath string
	var chromaURL string
	var isDebug bool

	flag.StringVar(&confPath, "conf", "", "path to config file (default: ~/.stock_pulse/conf.yaml)")
	flag.StringVar(&archivePath, "archive", "", "path to the scraped comment archive (JSON)")
	flag.StringVar(&chromaURL, "chroma", "", "Chroma server URL (overrides config)")
	flag.BoolVar(&isDebug, "debug", false, "display debug message")
	flag.Parse()

	if archivePath == "" {
		flag.Usage()
		os.Exit(2)
	}

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

	logFile, err := os.OpenFile(filepath.Join(appRootPath, "stock_pulse.log"), os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		log.Fatalln("failed to create log file:", err)
	}
	defer logFile.Close()
	logger.InitLogger(isDebug, logFile)

	conf, err := config.ParseConfigFromFile(confPath)
	if os.IsNotExist(err) {
		conf = config.Default()
	} else if err != nil {
		log.Fatalln("failed to load config:", err)
	}
	if chromaURL == "" {
		chromaURL = conf.Chroma.URL
	}
	if chromaURL == "" {
		log.Fatalln("no Chroma URL configured; pass -chroma or set chroma.url in the config")
	}

	////////////////////////////////////////////////////////////////////////////
	// Export
	////////////////////////////////////////////////////////////////////////////
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signalChan
		log.Infoln("received shutdown signal, stopping...")
		cancel()
	}()

	chromaClient, err := chromacommentclient.New(chromaURL, conf.Chroma.Collection)
	if err != nil {
		log.Fatalln("failed to connect to Chroma:", err)
	}
	defer chromaClient.Close()

	corpus, err := enginepkg.LoadArchive(archivePath)
	if err != nil {
		log.Fatalln("failed to load archive:", err)
	}

	exported := 0
	for _, batch := range workers.Chunk(corpus, EXPORT_BATCH_SIZE) {
		if ctx.Err() != nil {
			break
		}
		ids, err := chromaClient.BatchAddComments(ctx, batch)
		if err != nil {
			log.WithError(err).Errorln("failed to export batch, continuing")
			continue
		}
		exported += len(ids)
	}

	count, err := chromaClient.GetCollectionCount(ctx)
	if err != nil {
		log.WithError(err).Warnln("failed to read collection count")
	}

	color.Green.Printf("exported %d of %d comments (collection now holds %d)\n", exported, len(corpus), count)
}
