package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yourusername/edu-offline-go/internal/app"
	"github.com/yourusername/edu-offline-go/internal/infrastructure"
)

var (
	serverURL  string
	userID     string
	configPath string
	rootCmd    = &cobra.Command{
		Use:   "edu-offline",
		Short: "Offline download CLI - manage offline video downloads",
		Long:  `A command-line interface for requesting, inspecting and removing offline video downloads.`,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "Server URL")
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", "", "User ID to act as")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (seed only)")

	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(storageCmd)
	rootCmd.AddCommand(seedCmd)
}

// doRequest performs an authenticated API call and returns the response body
func doRequest(method, path string) ([]byte, int, error) {
	req, err := http.NewRequest(method, serverURL+path, nil)
	if err != nil {
		return nil, 0, err
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	return body, resp.StatusCode, err
}

func requireUser() {
	if userID == "" {
		fmt.Fprintln(os.Stderr, "Error: --user is required")
		os.Exit(1)
	}
}

var downloadCmd = &cobra.Command{
	Use:   "download [video-id]",
	Short: "Request an offline download of a video",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		requireUser()

		body, status, err := doRequest(http.MethodPost, "/api/v1/videos/"+args[0]+"/download")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if status != http.StatusAccepted {
			fmt.Fprintf(os.Stderr, "Error: %s\n", string(body))
			os.Exit(1)
		}

		var result struct {
			Download map[string]interface{} `json:"download"`
		}
		json.Unmarshal(body, &result)
		fmt.Printf("Download started!\n")
		fmt.Printf("ID:     %v\n", result.Download["id"])
		fmt.Printf("Status: %v\n", result.Download["status"])
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove [video-id]",
	Short: "Remove a video from offline storage",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		requireUser()

		body, status, err := doRequest(http.MethodDelete, "/api/v1/videos/"+args[0]+"/offline")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if status != http.StatusOK {
			fmt.Fprintf(os.Stderr, "Error: %s\n", string(body))
			os.Exit(1)
		}
		fmt.Println("Video removed from offline storage")
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the user's downloads",
	Run: func(cmd *cobra.Command, args []string) {
		requireUser()

		body, status, err := doRequest(http.MethodGet, "/api/v1/downloads")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if status != http.StatusOK {
			fmt.Fprintf(os.Stderr, "Error: %s\n", string(body))
			os.Exit(1)
		}

		var downloads []map[string]interface{}
		json.Unmarshal(body, &downloads)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tVIDEO\tSTATUS\tPROGRESS\tSIZE_MB\tCREATED")
		for _, d := range downloads {
			fmt.Fprintf(w, "%s\t%s\t%s\t%v%%\t%v\t%s\n",
				truncate(fmt.Sprint(d["id"]), 8),
				truncate(fmt.Sprint(d["video_id"]), 12),
				d["status"],
				d["progress_percent"],
				d["file_size_mb"],
				d["created_at"])
		}
		w.Flush()
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show download statistics",
	Run: func(cmd *cobra.Command, args []string) {
		requireUser()

		body, status, err := doRequest(http.MethodGet, "/api/v1/downloads/stats")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if status != http.StatusOK {
			fmt.Fprintf(os.Stderr, "Error: %s\n", string(body))
			os.Exit(1)
		}

		var stats map[string]interface{}
		json.Unmarshal(body, &stats)

		fmt.Println("Download Statistics:")
		fmt.Printf("  Total:       %v\n", stats["total"])
		fmt.Printf("  Pending:     %v\n", stats["pending"])
		fmt.Printf("  Downloading: %v\n", stats["downloading"])
		fmt.Printf("  Completed:   %v\n", stats["completed"])
		fmt.Printf("  Failed:      %v\n", stats["failed"])
	},
}

var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Show the user's offline storage usage",
	Run: func(cmd *cobra.Command, args []string) {
		requireUser()

		body, status, err := doRequest(http.MethodGet, "/api/v1/storage/info")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if status != http.StatusOK {
			fmt.Fprintf(os.Stderr, "Error: %s\n", string(body))
			os.Exit(1)
		}

		var summary struct {
			TotalSizeMB float64 `json:"total_size_mb"`
			VideoCount  int     `json:"video_count"`
			Downloads   []struct {
				Title  string  `json:"title"`
				SizeMB float64 `json:"size_mb"`
			} `json:"downloads"`
		}
		json.Unmarshal(body, &summary)

		fmt.Printf("Storage used: %.2f MB across %d videos\n", summary.TotalSizeMB, summary.VideoCount)
		for _, d := range summary.Downloads {
			fmt.Printf("  %-40s %8.2f MB\n", d.Title, d.SizeMB)
		}
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the sample course catalog into the database",
	Run: func(cmd *cobra.Command, args []string) {
		config, err := app.LoadConfig(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		repo, err := infrastructure.NewSQLiteRepository(config.Database.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer repo.Close()

		count, err := app.SeedCatalog(repo)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if count == 0 {
			fmt.Println("Catalog already seeded, nothing to do")
			return
		}
		fmt.Printf("Seeded %d videos\n", count)
	},
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
