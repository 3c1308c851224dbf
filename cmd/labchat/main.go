package main

import (
	"context"
	"flag"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/chunker"
	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/config"
	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/domain"
	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/embedding/hashing"
	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/embedding/openai"
	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/ingest"
	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/llm"
	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/retriever"
	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/session"
	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/summarizer"
	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/tui"
	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/vectorindex"
	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/vectorindex/file"
	"github.com/visalakshi2001/ua-llm-bioinformatics/internal/vectorindex/qdrant"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/labchat/config.yaml if not provided)")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Assemble the process-wide singletons: embedder, index, chat client.
	var emb domain.Embedder
	switch cfg.Embedder.Type {
	case "hashing", "":
		dim := 0
		if cfg.Embedder.Hashing != nil {
			dim = cfg.Embedder.Hashing.Dimension
		}
		emb = hashing.NewEmbedder(dim)
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			log.Fatalf("openai embedder config missing")
		}
		client, err := openai.NewClient(openai.Config{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			log.Fatalf("openai embedder init failed: %v", err)
		}
		emb = client
	default:
		log.Fatalf("unknown embedder: %s", cfg.Embedder.Type)
	}

	var idx vectorindex.Index
	switch cfg.Index.Type {
	case "file", "":
		idx, err = file.Open(cfg.Index.Path, emb.Dimension(), vectorindex.Metric(cfg.Index.Metric), emb.Name())
		if err != nil {
			log.Fatalf("opening index at %s: %v", cfg.Index.Path, err)
		}
	case "qdrant":
		if cfg.Index.Qdrant == nil {
			log.Fatalf("qdrant config missing")
		}
		idx, err = qdrant.NewStore(qdrant.Config{
			URL:        cfg.Index.Qdrant.URL,
			APIKey:     cfg.Index.Qdrant.APIKey,
			Collection: cfg.Index.Qdrant.Collection,
			Timeout:    time.Duration(cfg.Index.Qdrant.TimeoutSecs) * time.Second,
		}, emb.Dimension())
		if err != nil {
			log.Fatalf("qdrant init failed: %v", err)
		}
	default:
		log.Fatalf("unknown index backend: %s", cfg.Index.Type)
	}

	chat := llm.NewClient(llm.Config{
		BaseURL:     cfg.Chat.BaseURL,
		APIKeyEnv:   cfg.Chat.APIKeyEnv,
		Model:       cfg.Chat.Model,
		Temperature: cfg.Chat.Temperature,
		MaxTokens:   cfg.Chat.MaxTokens,
		Timeout:     time.Duration(cfg.Chat.TimeoutSecs) * time.Second,
	})
	if !chat.Available() {
		log.Printf("warning: no API key in %s; answers will be degraded", cfg.Chat.APIKeyEnv)
	}

	splitter := chunker.NewSplitter(cfg.Chunker.ChunkSize, cfg.Chunker.Overlap)
	sess := session.New(session.Config{
		Retriever: retriever.New(emb, idx),
		Generate: func(ctx context.Context, turns []domain.Turn) session.TokenStream {
			return chat.Stream(ctx, turns)
		},
		Pipeline:   ingest.NewPipeline(splitter),
		Embedder:   emb,
		Index:      idx,
		Summarizer: summarizer.NewFrequencySummarizer(),
		IndexPath:  cfg.Index.Path,
		TopK:       cfg.Retrieval.TopK,
		Threshold:  cfg.Retrieval.CitationThreshold,
	})

	if _, err := tea.NewProgram(tui.New(sess), tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}
