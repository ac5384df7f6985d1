// cmd/tools/screen-text/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"bot-middleware/internal/clients/moderation"
	"bot-middleware/internal/common/logger"
)

func main() {
	baseURL := flag.String("base-url", os.Getenv("MODERATION_BASE_URL"), "Moderation API base URL")
	apiKey := flag.String("api-key", os.Getenv("MODERATION_API_KEY"), "Moderation API subscription key")
	language := flag.String("language", "eng", "Text language")
	pii := flag.Bool("pii", true, "Detect personal data")
	classify := flag.Bool("classify", true, "Run the text classifier")
	autocorrect := flag.Bool("autocorrect", false, "Autocorrect the text before screening")
	timeout := flag.Duration("timeout", 10*time.Second, "Request timeout")
	flag.Parse()

	text := strings.Join(flag.Args(), " ")
	if text == "" {
		fmt.Fprintln(os.Stderr, "Usage: screen-text [flags] <text to screen>")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *baseURL == "" {
		fmt.Fprintln(os.Stderr, "Error: -base-url (or MODERATION_BASE_URL) is required.")
		os.Exit(1)
	}

	client := moderation.NewClient(&moderation.Config{
		BaseURL:     *baseURL,
		APIKey:      *apiKey,
		Timeout:     *timeout,
		AutoCorrect: *autocorrect,
		PII:         *pii,
		Classify:    *classify,
		Language:    *language,
	}, logger.NewNoOpLogger())

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := client.ScreenText(ctx, text, *language)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error screening text: %v\n", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding result: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))

	if result.ReviewRecommended() {
		fmt.Println("\nVerdict: review recommended")
		os.Exit(2)
	}
	fmt.Println("\nVerdict: clean")
}
