package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mopo922/canvas-importer/internal/config"
	"github.com/mopo922/canvas-importer/internal/database"
	"github.com/mopo922/canvas-importer/internal/importer"
	"github.com/mopo922/canvas-importer/internal/platform"
	"github.com/mopo922/canvas-importer/internal/repository"
	"github.com/mopo922/canvas-importer/internal/wordpress"
)

const platformWordPress = "WordPress"

func newImportCmd(log zerolog.Logger) *cobra.Command {
	var (
		platformFlag string
		urlFlag      string
		usernameFlag string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import posts from another blog.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, log, platformFlag, urlFlag, usernameFlag)
		},
	}

	cmd.Flags().StringVar(&platformFlag, "platform", "", "platform of the blog to import (WordPress)")
	cmd.Flags().StringVar(&urlFlag, "url", "", "URL of the blog to import")
	cmd.Flags().StringVar(&usernameFlag, "username", "", "admin username of the blog to import")

	return cmd
}

func runImport(cmd *cobra.Command, log zerolog.Logger, platformName, blogURL, username string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	in := bufio.NewReader(cmd.InOrStdin())

	if platformName == "" {
		platformName = promptLine(in, fmt.Sprintf("Platform of the blog to import [%s]: ", platformWordPress))
		if platformName == "" {
			platformName = platformWordPress
		}
	}
	if platformName != platformWordPress {
		return fmt.Errorf("no platform chosen: %q is not supported", platformName)
	}

	if blogURL == "" {
		blogURL = promptLine(in, "URL of the blog to import: ")
	}
	blogURL = platform.NormalizeBaseURL(blogURL)
	if blogURL == "" {
		return errors.New("a blog URL is required")
	}

	if username == "" {
		username = promptLine(in, "WordPress admin username: ")
	}
	password, err := promptSecret("WordPress admin password: ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("connect to destination database: %w", err)
	}
	defer db.Close()

	repos := repository.New(db)

	wp := wordpress.New(wordpress.Config{
		BaseURL:      blogURL,
		Username:     username,
		Password:     password,
		HTTPTimeout:  cfg.Import.HTTPTimeout,
		Layout:       cfg.Import.PostLayout,
		StorageRoot:  cfg.Import.StorageRoot,
		PublicPrefix: cfg.Import.PublicPrefix,
	}, repos.User, log)

	imp := importer.New(wp, repos, log)
	imp.SourceURL = blogURL

	fmt.Fprintln(cmd.OutOrStdout(), "Checking credentials...")

	pw := progress.NewWriter()
	pw.SetOutputWriter(cmd.OutOrStdout())
	go pw.Render()

	var tracker *progress.Tracker
	imp.Progress = func(processed, total int) {
		if tracker == nil {
			tracker = &progress.Tracker{Message: "Importing posts", Total: int64(total)}
			pw.AppendTracker(tracker)
		}
		tracker.SetValue(int64(processed))
	}

	job, err := imp.Run(cmd.Context())
	if tracker != nil {
		tracker.MarkAsDone()
	}
	pw.Stop()

	if errors.Is(err, importer.ErrInvalidCredentials) {
		fmt.Fprintln(cmd.OutOrStdout(), "Invalid credentials provided.")
		return err
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d posts imported, %d failed.\n", job.ImportedCount, job.FailedCount)
	return nil
}

// promptLine reads one trimmed line of input.
func promptLine(in *bufio.Reader, prompt string) string {
	fmt.Print(prompt)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

// promptSecret reads a line without echoing it. When stdin is not a
// terminal (tests, pipes) it falls back to a plain read.
func promptSecret(prompt string) (string, error) {
	fmt.Print(prompt)

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}

	secret, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(secret), nil
}
