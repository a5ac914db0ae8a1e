package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/hitcircle/hitcircle-api/internal/adapters/cache"
	"github.com/hitcircle/hitcircle-api/internal/adapters/matchprovider"
	"github.com/hitcircle/hitcircle-api/internal/app"
	"github.com/hitcircle/hitcircle-api/internal/domain"
)

// Fetches a multiplayer match from the osu! API and prints the rating table
// for all participants. Useful for eyeballing algorithm output against known
// matches.
func main() {
	clientID := os.Getenv("OSU_CLIENT_ID")
	clientSecret := os.Getenv("OSU_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		log.Fatal("OSU_CLIENT_ID and OSU_CLIENT_SECRET must be set")
	}

	if len(os.Args) < 2 {
		log.Fatal("No match id provided")
	}

	matchID, err := strconv.ParseInt(os.Args[1], 10, 64)
	if err != nil || matchID <= 0 {
		log.Fatalf("Invalid match id: %q", os.Args[1])
	}

	algorithm := domain.AlgorithmOsuplus
	if len(os.Args) >= 3 {
		algorithm, err = domain.RatingAlgorithmFromString(os.Args[2])
		if err != nil {
			log.Fatalf("Unknown algorithm: %q", os.Args[2])
		}
	}

	httpClient := &http.Client{
		Timeout: 10 * time.Second,
	}
	provider, err := matchprovider.NewOsuAPIMatchProvider(httpClient, clientID, clientSecret)
	if err != nil {
		log.Fatalf("Failed to initialize osu! API match provider: %v", err)
	}

	matchCache := cache.NewTTLCache[*domain.MatchHistory](time.Minute)
	getMatchHistory := app.BuildGetMatchHistory(matchCache, provider)
	getMatchRatingReport := app.BuildGetMatchRatingReport(getMatchHistory)

	report, err := getMatchRatingReport(context.Background(), matchID, algorithm)
	if err != nil {
		log.Fatalf("Failed to compute match rating: %v", err)
	}

	fmt.Printf("%s (match %d, %s)\n", report.Name, report.MatchID, report.Algorithm)
	if report.TeamVS != nil {
		fmt.Printf("red %d - %d blue (%dv%d)\n", report.TeamVS.RedScore, report.TeamVS.BlueScore, report.TeamVS.TeamSize, report.TeamVS.TeamSize)
	}
	for _, player := range report.Players {
		rating := "-"
		if player.Rating != nil {
			rating = strconv.FormatFloat(*player.Rating, 'f', 3, 64)
		}
		fmt.Printf("%-20s %8s  %dW-%dL  avg %.0f\n", player.Username, rating, player.Stats.Wins, player.Stats.Losses, player.Stats.AverageScore)
	}
}
