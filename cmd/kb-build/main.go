package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"menurag/internal/config"
	"menurag/internal/domain"
	embopenai "menurag/internal/embedding/openai"
	"menurag/internal/embedding/tfidf"
	"menurag/internal/kb"
	"menurag/internal/logger"
	"menurag/internal/vectorstore/qdrant"
)

// batchEmbedder is implemented by embedders that can parallelize over the
// corpus.
type batchEmbedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

func main() {
	_ = godotenv.Load()

	var (
		cfgPath     string
		restaurants string
		menuItems   string
		outDir      string
	)
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional)")
	flag.StringVar(&restaurants, "restaurants", "data/processed/restaurants.csv", "Restaurants table (CSV)")
	flag.StringVar(&menuItems, "menu-items", "data/processed/menu_items.csv", "Menu items table (CSV)")
	flag.StringVar(&outDir, "out", "", "Output directory for knowledge base artifacts (default from config)")
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
	if outDir == "" {
		outDir = cfg.KnowledgeBase.Dir
	}

	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()

	restaurantRows, err := kb.LoadRestaurantsCSV(restaurants)
	if err != nil {
		zl.Fatal("loading restaurants table", zap.Error(err))
	}
	menuItemRows, err := kb.LoadMenuItemsCSV(menuItems)
	if err != nil {
		zl.Fatal("loading menu items table", zap.Error(err))
	}
	docs := kb.BuildDocuments(restaurantRows, menuItemRows)
	zl.Info("building knowledge base",
		zap.Int("restaurants", len(restaurantRows)),
		zap.Int("menu_items", len(menuItemRows)),
		zap.Int("documents", len(docs)))

	var emb domain.Embedder
	switch cfg.Embedder.Type {
	case "tfidf", "":
		emb = tfidf.New()
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

	contents := make([]string, len(docs))
	for i, d := range docs {
		contents[i] = d.Content
	}
	if err := emb.Prepare(contents); err != nil {
		zl.Fatal("preparing embedder", zap.Error(err))
	}

	ctx := context.Background()
	var vectors [][]float64
	if be, ok := emb.(batchEmbedder); ok {
		vectors, err = be.EmbedBatch(ctx, contents)
		if err != nil {
			zl.Fatal("embedding documents", zap.Error(err))
		}
	} else {
		vectors = make([][]float64, len(contents))
		for i, text := range contents {
			vectors[i], err = emb.Embed(ctx, text)
			if err != nil {
				zl.Fatal("embedding documents", zap.Int("row", i), zap.Error(err))
			}
		}
	}

	model := kb.ModelInfo{Name: emb.Name(), Dimension: emb.Dimension()}
	if err := kb.Save(outDir, docs, vectors, model); err != nil {
		zl.Fatal("saving knowledge base", zap.Error(err))
	}
	zl.Info("knowledge base saved", zap.String("dir", outDir), zap.String("model", model.Name))

	if cfg.VectorStore.Type == "qdrant" {
		if cfg.VectorStore.Qdrant == nil {
			zl.Fatal("qdrant config missing")
		}
		q := qdrant.NewStorage(qdrant.Config{
			URL:        cfg.VectorStore.Qdrant.URL,
			APIKey:     cfg.VectorStore.Qdrant.APIKey,
			Collection: cfg.VectorStore.Qdrant.Collection,
			Timeout:    time.Duration(cfg.VectorStore.Qdrant.TimeoutSecs) * time.Second,
		})
		if err := q.Init(model.Dimension); err != nil {
			zl.Fatal("creating qdrant collection", zap.Error(err))
		}
		if err := q.Upsert(vectors); err != nil {
			zl.Fatal("upserting vectors to qdrant", zap.Error(err))
		}
		zl.Info("vectors upserted to qdrant",
			zap.String("collection", cfg.VectorStore.Qdrant.Collection),
			zap.Int("points", len(vectors)))
	}
}
