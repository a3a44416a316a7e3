package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"github.com/dhayanand641064/InventoryApp/internal/capture"
	"github.com/dhayanand641064/InventoryApp/internal/config"
	"github.com/dhayanand641064/InventoryApp/internal/db"
	"github.com/dhayanand641064/InventoryApp/internal/domain"
	"github.com/dhayanand641064/InventoryApp/internal/draft"
	"github.com/dhayanand641064/InventoryApp/internal/logging"
	"github.com/dhayanand641064/InventoryApp/internal/photostore"
	firebasestore "github.com/dhayanand641064/InventoryApp/internal/photostore/firebase"
	localstore "github.com/dhayanand641064/InventoryApp/internal/photostore/local"
	"github.com/dhayanand641064/InventoryApp/internal/projector"
	"github.com/dhayanand641064/InventoryApp/internal/rtdb"
	"github.com/dhayanand641064/InventoryApp/internal/service"
	"github.com/dhayanand641064/InventoryApp/internal/speech"
	"github.com/dhayanand641064/InventoryApp/internal/store"
	"github.com/dhayanand641064/InventoryApp/internal/vision"
	claudevision "github.com/dhayanand641064/InventoryApp/internal/vision/claude"
	ollamavision "github.com/dhayanand641064/InventoryApp/internal/vision/ollama"
)

const usage = `Usage: partsinv <command> [flags]

Commands:
  list     print the parts list (-q filter, -cached for offline copy)
  watch    follow the live list, reprinting on every remote change
  add      create a part (-photo may repeat, up to 5; -dictate reads
           remarks lines from stdin)
  edit     update a part's fields by id (images are never changed)
  delete   remove a part and its images
  suggest  propose part details from a photo
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app := &application{cfg: cfg, logger: logger}

	switch os.Args[1] {
	case "list":
		err = app.runList(ctx, os.Args[2:])
	case "watch":
		err = app.runWatch(ctx, os.Args[2:])
	case "add":
		err = app.runAdd(ctx, os.Args[2:])
	case "edit":
		err = app.runEdit(ctx, os.Args[2:])
	case "delete":
		err = app.runDelete(ctx, os.Args[2:])
	case "suggest":
		err = app.runSuggest(ctx, os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, service.UserMessage(err))
		os.Exit(1)
	}
}

type application struct {
	cfg    *config.Config
	logger *slog.Logger
}

func (a *application) newFirebaseApp(ctx context.Context) (*firebase.App, error) {
	var opts []option.ClientOption
	if a.cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(a.cfg.CredentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{
		DatabaseURL:   a.cfg.DatabaseURL,
		StorageBucket: a.cfg.StorageBucket,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	return app, nil
}

func (a *application) openParts(ctx context.Context) (*rtdb.PartStore, error) {
	app, err := a.newFirebaseApp(ctx)
	if err != nil {
		return nil, err
	}
	return rtdb.NewPartStore(ctx, app, a.cfg.DatabaseURL, a.logger)
}

func (a *application) openService(ctx context.Context) (*service.PartService, *rtdb.PartStore, error) {
	app, err := a.newFirebaseApp(ctx)
	if err != nil {
		return nil, nil, err
	}
	parts, err := rtdb.NewPartStore(ctx, app, a.cfg.DatabaseURL, a.logger)
	if err != nil {
		return nil, nil, err
	}

	var photos photostore.PhotoStore
	switch a.cfg.PhotoBackend {
	case "local":
		photos, err = localstore.New(a.cfg.PhotoLocalPath, a.logger)
	default:
		photos, err = firebasestore.New(ctx, app, a.cfg.StorageBucket, a.logger)
	}
	if err != nil {
		return nil, nil, err
	}

	return service.NewPartService(parts, photos, a.logger), parts, nil
}

func (a *application) openCache() (*store.SnapshotStore, func(), error) {
	if err := os.MkdirAll(filepath.Dir(a.cfg.CachePath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	database, err := db.Open(a.cfg.CachePath)
	if err != nil {
		return nil, nil, err
	}
	closer := func() {
		if err := database.Close(); err != nil {
			a.logger.Error("failed to close cache database", "error", err)
		}
	}
	return store.NewSnapshotStore(database, a.logger), closer, nil
}

func (a *application) runList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	query := fs.String("q", "", "filter by part name, case-insensitive substring")
	cached := fs.Bool("cached", false, "read the local snapshot cache instead of the remote store")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var parts []domain.Part
	if *cached {
		cache, closeCache, err := a.openCache()
		if err != nil {
			return err
		}
		defer closeCache()
		parts, err = cache.List(ctx)
		if err != nil {
			return err
		}
		if ts, err := cache.UpdatedAt(ctx); err == nil && !ts.IsZero() {
			fmt.Printf("cached snapshot from %s\n", ts.Local().Format("2006-01-02 15:04:05"))
		}
	} else {
		remote, err := a.openParts(ctx)
		if err != nil {
			return err
		}
		parts, err = remote.All(ctx)
		if err != nil {
			return err
		}
	}

	printParts(domain.FilterByName(parts, *query))
	return nil
}

func (a *application) runWatch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	query := fs.String("q", "", "filter by part name, case-insensitive substring")
	if err := fs.Parse(args); err != nil {
		return err
	}

	remote, err := a.openParts(ctx)
	if err != nil {
		return err
	}
	cache, closeCache, err := a.openCache()
	if err != nil {
		return err
	}
	defer closeCache()

	proj := projector.New(cache, a.logger)
	proj.SetQuery(*query)
	proj.OnChange(func() {
		fmt.Print("\033[H\033[2J") // clear screen between redraws
		if msg := proj.LastError(); msg != "" {
			fmt.Printf("! %s\n\n", msg)
		}
		printParts(proj.Filtered())
	})

	snapshots, errs, err := remote.Watch(ctx)
	if err != nil {
		return err
	}
	fmt.Println("watching parts (ctrl-c to stop)...")
	proj.Run(ctx, snapshots, errs)
	return nil
}

func (a *application) runAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	var photos stringList
	name := fs.String("name", "", "part name (required)")
	qty := fs.String("qty", "0", "quantity")
	cabinet := fs.String("cabinet", "", "cabinet")
	row := fs.String("row", "", "shelf row")
	col := fs.String("col", "", "shelf column")
	remarks := fs.String("remarks", "", "freeform remarks")
	dictate := fs.Bool("dictate", false, "append remarks lines read from stdin")
	fs.Var(&photos, "photo", "photo file to attach (repeatable, up to 5)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	d := draft.Draft{
		PartName: *name,
		Quantity: *qty,
		Cabinet:  *cabinet,
		ShelfRow: *row,
		ShelfCol: *col,
		Remarks:  *remarks,
	}

	if *dictate {
		fmt.Println("dictating remarks; end with ctrl-d...")
		texts, errs := speech.NewLineReader(os.Stdin).Listen(ctx)
		for text := range texts {
			d = d.AppendRemark(text)
		}
		if err := <-errs; err != nil {
			return fmt.Errorf("dictation failed: %w", err)
		}
	}

	coord := capture.NewCoordinator()
	src := capture.NewFileSource(photos)
	for range photos {
		if err := coord.Capture(ctx, src); err != nil {
			return err
		}
	}

	svc, _, err := a.openService(ctx)
	if err != nil {
		return err
	}
	p, err := svc.Submit(ctx, d, coord.List(), func(msg string) {
		fmt.Println(msg)
	})
	if err != nil {
		return err
	}

	coord.Reset()
	fmt.Printf("Part %q saved with %d photo(s), id %s\n", p.PartName, len(p.ImageURLs), p.ID)
	return nil
}

func (a *application) runEdit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	id := fs.String("id", "", "part id (required)")
	name := fs.String("name", "", "part name")
	qty := fs.String("qty", "", "quantity")
	cabinet := fs.String("cabinet", "", "cabinet")
	row := fs.String("row", "", "shelf row")
	col := fs.String("col", "", "shelf column")
	remarks := fs.String("remarks", "", "freeform remarks")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("-id is required")
	}

	svc, parts, err := a.openService(ctx)
	if err != nil {
		return err
	}
	current, err := parts.Get(ctx, *id)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("part %s not found", *id)
	}

	// Seed from the stored record, then overlay only the flags given.
	d := draft.FromPart(*current)
	overlay(&d.PartName, *name)
	overlay(&d.Quantity, *qty)
	overlay(&d.Cabinet, *cabinet)
	overlay(&d.ShelfRow, *row)
	overlay(&d.ShelfCol, *col)
	overlay(&d.Remarks, *remarks)

	updated, err := svc.Update(ctx, *current, d)
	if err != nil {
		return err
	}
	fmt.Printf("Part %q updated\n", updated.PartName)
	return nil
}

func (a *application) runDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.String("id", "", "part id (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("-id is required")
	}

	svc, _, err := a.openService(ctx)
	if err != nil {
		return err
	}
	if err := svc.Delete(ctx, *id); err != nil {
		return err
	}
	fmt.Println("Part deleted")
	return nil
}

func (a *application) runSuggest(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("suggest", flag.ExitOnError)
	photo := fs.String("photo", "", "photo file to analyze (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *photo == "" {
		return errors.New("-photo is required")
	}

	analyzer, err := a.newAnalyzer()
	if err != nil {
		return err
	}

	f, err := os.Open(*photo)
	if err != nil {
		return fmt.Errorf("failed to open photo: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			a.logger.Error("failed to close photo file", "error", err)
		}
	}()

	result, err := analyzer.Analyze(ctx, f, mimeFromExt(*photo))
	if err != nil {
		return err
	}
	if len(result.Candidates) == 0 {
		fmt.Println("no part recognized")
		return nil
	}
	for _, c := range result.Candidates {
		fmt.Printf("%s | %s | %s\n", c.Name, c.Quantity, c.Notes)
	}
	return nil
}

func (a *application) newAnalyzer() (vision.Analyzer, error) {
	switch a.cfg.VisionBackend {
	case "claude":
		if a.cfg.ClaudeAPIKey == "" {
			return nil, errors.New("CLAUDE_API_KEY is required when VISION_BACKEND=claude")
		}
		a.logger.Info("using Claude vision backend")
		return claudevision.New(a.cfg.ClaudeAPIKey, a.cfg.ClaudeModel), nil
	case "ollama":
		a.logger.Info("using Ollama vision backend", "model", a.cfg.OllamaModel)
		return ollamavision.New(a.cfg.OllamaHost, a.cfg.OllamaModel, a.logger), nil
	default:
		return nil, errors.New("vision suggestions are disabled; set VISION_BACKEND to claude or ollama")
	}
}

func printParts(parts []domain.Part) {
	if len(parts) == 0 {
		fmt.Println("no parts")
		return
	}
	for _, p := range parts {
		location := fmt.Sprintf("cab %s / row %s / col %s", p.Cabinet, p.ShelfRow, p.ShelfCol)
		fmt.Printf("%-22s  %-24s qty %-5d %-28s %d photo(s)", p.ID, p.PartName, p.Quantity, location, len(p.DisplayImages()))
		if p.Remarks != "" {
			fmt.Printf("  %s", p.Remarks)
		}
		fmt.Println()
	}
}

func overlay(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func mimeFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// stringList collects repeatable -photo flags.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}
