// Command query sends one search turn to a running haven API and prints the ranked shelters.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/UnknownOlympus/haven/internal/api"
	"github.com/UnknownOlympus/haven/internal/models"
	"github.com/urfave/cli/v2"
)

const requestTimeout = 30 * time.Second

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "haven-query",
		Usage: "Search for nearby shelters through a haven API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Usage:   "Base URL of the haven API",
				Value:   "http://localhost:8081",
				EnvVars: []string{"HAVEN_SERVER"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Run one search turn",
				ArgsUsage: "<query text>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "lang",
						Usage: "Query language (sv, en)",
						Value: "sv",
					},
					&cli.IntFlag{
						Name:  "count",
						Usage: "Number of results; 0 keeps the session count",
					},
					&cli.Float64Flag{
						Name:  "radius",
						Usage: "Search radius in km; 0 keeps the session radius",
					},
					&cli.StringFlag{
						Name:  "at",
						Usage: "Search origin as \"lat,lon\", skips place name extraction",
					},
					&cli.StringFlag{
						Name:    "conversation",
						Aliases: []string{"c"},
						Usage:   "Conversation id to continue",
					},
					&cli.BoolFlag{
						Name:  "accessible",
						Usage: "Only accessible shelters",
					},
					&cli.StringFlag{
						Name:  "district",
						Usage: "Only shelters in this district",
					},
					&cli.BoolFlag{
						Name:  "clear",
						Usage: "Reset the conversation before searching",
					},
				},
			},
			{
				Name:      "geocode",
				Usage:     "Resolve a place name",
				ArgsUsage: "<place name>",
				Action:    geocodeCommand,
			},
		},
	}
}

func searchCommand(c *cli.Context) error {
	text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if text == "" {
		return errors.New("query text is required")
	}

	body := api.SearchRequest{
		ConversationID: c.String("conversation"),
		Query:          text,
		Language:       c.String("lang"),
		Count:          c.Int("count"),
		Clear:          c.Bool("clear"),
		Filter: models.Filter{
			AccessibleOnly: c.Bool("accessible"),
			District:       c.String("district"),
		},
	}
	if radius := c.Float64("radius"); radius > 0 {
		body.RadiusKm = &radius
	}
	if at := c.String("at"); at != "" {
		point, err := models.ParseGeoPoint(at)
		if err != nil {
			return fmt.Errorf("invalid --at: %w", err)
		}
		body.Location = &point
	}

	var resp api.SearchResponse
	if err := post(c.Context, c.String("server")+"/v1/search", body, &resp); err != nil {
		return err
	}

	printSearch(c.App.Writer, &resp)

	return nil
}

func geocodeCommand(c *cli.Context) error {
	place := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if place == "" {
		return errors.New("place name is required")
	}

	var resp models.Place
	if err := post(c.Context, c.String("server")+"/v1/geocode", api.GeocodeRequest{Place: place}, &resp); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "%s\t%.6f,%.6f\n", resp.DisplayName, resp.Point.Latitude, resp.Point.Longitude)

	return nil
}

func post(ctx context.Context, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr api.APIError
		if jsonErr := json.NewDecoder(resp.Body).Decode(&apiErr); jsonErr == nil && apiErr.Message != "" {
			return fmt.Errorf("server answered %d: %s", resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("server answered %d", resp.StatusCode)
	}

	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func printSearch(w io.Writer, resp *api.SearchResponse) {
	fmt.Fprintf(w, "conversation: %s\n", resp.ConversationID)
	if resp.Response == nil {
		return
	}

	if loc := resp.Session.Location; loc != nil {
		fmt.Fprintf(w, "location: %s (%.5f,%.5f), radius %.1f km\n",
			resp.Session.LocationName, loc.Latitude, loc.Longitude, resp.Session.RadiusKm)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, r := range resp.Results {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.Rank, r.Facility.Name, r.Facility.Address, r.Distance)
	}
	_ = tw.Flush()

	for _, d := range resp.Diagnostics {
		fmt.Fprintf(w, "note: %s\n", d.Message)
	}
}
