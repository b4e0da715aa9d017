package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"cardbinder/internal/album"
	"cardbinder/internal/catalog"
	"cardbinder/internal/search"
	"cardbinder/pkg/models"
	"cardbinder/pkg/utils"
)

func main() {
	cfg := utils.LoadConfig()

	cards, err := loadAllCards(catalog.NewStore(cfg.CacheDir))
	if err != nil {
		log.Fatalf("load catalogs: %v", err)
	}
	log.Printf("loaded %d cards from %s", len(cards), cfg.CacheDir)

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "cards": len(cards)})
	})

	api := router.Group("/")
	search.NewHandler(search.NewIndex(cards)).RegisterRoutes(api)
	album.NewHandler(album.NewStore(cfg.AlbumDir)).RegisterRoutes(api)

	httpSrv := &http.Server{
		Addr:    ":8080",
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Println("HTTP API server listening on :8080")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	log.Println("server stopped")
}

// loadAllCards flattens every catalog file in the cache into the
// summaries served by search and details. Card data is read once at
// startup; the scrape commands own the files.
func loadAllCards(store *catalog.Store) ([]models.CardSummary, error) {
	codes, err := store.Codes()
	if err != nil {
		return nil, err
	}
	var out []models.CardSummary
	for _, code := range codes {
		cards, err := store.Load(code)
		if err != nil {
			log.Printf("skipping unreadable catalog %s: %v", code, err)
			continue
		}
		for _, c := range cards {
			out = append(out, models.Summarize(c, code))
		}
	}
	return out, nil
}
