package main

import (
	"flag"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"menurag/internal/chatbot"
	"menurag/internal/config"
	"menurag/internal/domain"
	embopenai "menurag/internal/embedding/openai"
	"menurag/internal/embedding/tfidf"
	"menurag/internal/generation/extractive"
	genopenai "menurag/internal/generation/openai"
	"menurag/internal/kb"
	"menurag/internal/logger"
	"menurag/internal/retrieval"
	"menurag/internal/tui"
	"menurag/internal/vectorstore"
	"menurag/internal/vectorstore/flat"
	"menurag/internal/vectorstore/qdrant"
)

func main() {
	_ = godotenv.Load()

	var cfgPath, kbDir string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/menurag/config.yaml if not provided)")
	flag.StringVar(&kbDir, "kb", "", "Knowledge base directory (default from config)")
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
	if kbDir == "" {
		kbDir = cfg.KnowledgeBase.Dir
	}

	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()

	base, err := kb.Load(kbDir)
	if err != nil {
		zl.Fatal("loading knowledge base", zap.String("dir", kbDir), zap.Error(err))
	}
	zl.Info("knowledge base loaded",
		zap.String("dir", kbDir),
		zap.Int("documents", len(base.Documents)),
		zap.String("model", base.Model.Name))

	// Assemble components
	var emb domain.Embedder
	switch cfg.Embedder.Type {
	case "tfidf", "":
		t := tfidf.New()
		if err := t.Prepare(base.Contents()); err != nil {
			zl.Fatal("preparing tfidf embedder", zap.Error(err))
		}
		emb = t
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			zl.Fatal("openai embedder config missing")
		}
		client, err := embopenai.NewClient(embopenai.Config{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
		})
		if err != nil {
			zl.Fatal("openai embedder init failed", zap.Error(err))
		}
		emb = client
	default:
		zl.Fatal("unknown embedder", zap.String("type", cfg.Embedder.Type))
	}
	if err := base.VerifyEmbedder(emb); err != nil {
		zl.Fatal("embedder does not match knowledge base", zap.Error(err))
	}

	var gen domain.Generator
	switch cfg.Generator.Type {
	case "extractive", "":
		gen = extractive.New(cfg.Generator.MaxFacts)
	case "openai":
		if cfg.Generator.OpenAI == nil {
			zl.Fatal("openai generator config missing")
		}
		client, err := genopenai.NewClient(genopenai.Config{
			BaseURL:   cfg.Generator.OpenAI.BaseURL,
			APIKeyEnv: cfg.Generator.OpenAI.APIKeyEnv,
			Model:     cfg.Generator.OpenAI.Model,
		})
		if err != nil {
			zl.Fatal("openai generator init failed", zap.Error(err))
		}
		gen = client
	default:
		zl.Fatal("unknown generator", zap.String("type", cfg.Generator.Type))
	}

	var store vectorstore.Storage
	switch cfg.VectorStore.Type {
	case "flat", "":
		store, err = flat.New(base.Vectors)
		if err != nil {
			zl.Fatal("building vector index", zap.Error(err))
		}
	case "qdrant":
		if cfg.VectorStore.Qdrant == nil {
			zl.Fatal("qdrant config missing")
		}
		if len(base.Vectors) == 0 {
			zl.Fatal("knowledge base holds no vectors")
		}
		q := qdrant.NewStorage(qdrant.Config{
			URL:        cfg.VectorStore.Qdrant.URL,
			APIKey:     cfg.VectorStore.Qdrant.APIKey,
			Collection: cfg.VectorStore.Qdrant.Collection,
			Timeout:    time.Duration(cfg.VectorStore.Qdrant.TimeoutSecs) * time.Second,
		})
		if err := q.Init(len(base.Vectors[0])); err != nil {
			zl.Fatal("connecting to qdrant", zap.Error(err))
		}
		store = q
	default:
		zl.Fatal("unknown vector store", zap.String("type", cfg.VectorStore.Type))
	}
	retriever, err := retrieval.New(store, emb, base.Documents, zl)
	if err != nil {
		zl.Fatal("building retriever", zap.Error(err))
	}

	bot := chatbot.New(retriever, gen, zl)
	conversation := chatbot.NewConversation(bot)

	m := tui.New(conversation)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		zl.Fatal("tui exited with error", zap.Error(err))
	}
}
