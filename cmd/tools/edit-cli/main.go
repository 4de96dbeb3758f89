package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/annel0/voxel-level/internal/eventbus"
	gosync "github.com/annel0/voxel-level/internal/sync"
	"github.com/annel0/voxel-level/internal/tile"
)

const (
	defaultNatsURL = "nats://127.0.0.1:4222"
	timeFormat     = "2006-01-02T15:04:05Z"
)

func main() {
	var (
		natsURL  = flag.String("nats", defaultNatsURL, "NATS server URL")
		stream   = flag.String("stream", "LEVEL", "JetStream stream name")
		command  = flag.String("cmd", "tail", "Command: tail, stats, send")
		sources  = flag.String("sources", "", "Source nodes filter (comma-separated)")
		limit    = flag.Int("limit", 100, "Maximum number of batches for tail")
		window   = flag.Duration("window", 5*time.Second, "Collection window for stats")
		useZstd  = flag.Bool("zstd", true, "Payloads are zstd-compressed")
		source   = flag.String("source", "edit-cli", "Source node for send")
		x        = flag.Int("x", 0, "X for send")
		y        = flag.Int("y", 0, "Y for send")
		z        = flag.Int("z", 0, "Z for send")
		tileName = flag.String("tile", "stone", "Tile name for send")
	)
	flag.Parse()

	codec := gosync.NewRawCodec()
	if *useZstd {
		zc, err := gosync.NewZstdCodec()
		if err != nil {
			log.Fatalf("❌ Failed to create codec: %v", err)
		}
		codec = zc
	}

	bus, err := eventbus.NewJetStreamBus(*natsURL, *stream, 24*time.Hour)
	if err != nil {
		log.Fatalf("❌ Failed to connect to NATS: %v", err)
	}
	defer bus.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	filter := eventbus.Filter{
		Types:   []string{eventbus.TypeTileEditBatch},
		Sources: parseStringList(*sources),
	}

	switch *command {
	case "tail":
		err = tailEdits(ctx, bus, codec, filter, *limit)
	case "stats":
		err = showStats(ctx, bus, codec, filter, *window)
	case "send":
		err = sendEdit(ctx, bus, codec, *source, *x, *y, *z, *tileName)
	default:
		fmt.Printf("❌ Unknown command: %s\n", *command)
		fmt.Println("Available commands: tail, stats, send")
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("❌ %s failed: %v", *command, err)
	}
}

// tailEdits выводит пакеты правок по мере поступления
func tailEdits(ctx context.Context, bus eventbus.EventBus, codec gosync.EditCodec, f eventbus.Filter, limit int) error {
	fmt.Printf("🎬 Tailing edit batches (limit: %d)\n", limit)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var count int64
	sub, err := bus.Subscribe(ctx, f, func(_ context.Context, ev *eventbus.Envelope) {
		edits, err := codec.Decode(ev.Payload)
		if err != nil {
			fmt.Printf("[%s] %s corrupt batch %s: %v\n", ev.Timestamp.Format("15:04:05"), ev.Source, ev.ID, err)
			return
		}
		printBatch(ev, edits)
		if atomic.AddInt64(&count, 1) >= int64(limit) {
			cancel()
		}
	})
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	<-ctx.Done()
	fmt.Printf("\n📊 Total batches: %d\n", atomic.LoadInt64(&count))
	return nil
}

// showStats собирает пакеты за окно и выводит распределение правок
func showStats(ctx context.Context, bus eventbus.EventBus, codec gosync.EditCodec, f eventbus.Filter, window time.Duration) error {
	fmt.Printf("📊 Collecting edit statistics for %v\n", window)

	type counters struct {
		batches, edits map[string]int
		tiles          map[string]int
		corrupt        int
	}
	results := make(chan counters, 1)
	events := make(chan *eventbus.Envelope, 256)

	sub, err := bus.Subscribe(ctx, f, func(_ context.Context, ev *eventbus.Envelope) {
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	})
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	go func() {
		c := counters{batches: map[string]int{}, edits: map[string]int{}, tiles: map[string]int{}}
		deadline := time.After(window)
		for {
			select {
			case ev := <-events:
				edits, err := codec.Decode(ev.Payload)
				if err != nil {
					c.corrupt++
					continue
				}
				c.batches[ev.Source]++
				c.edits[ev.Source] += len(edits)
				for _, e := range edits {
					c.tiles[tile.Name(e.Type)]++
				}
			case <-deadline:
				results <- c
				return
			case <-ctx.Done():
				results <- c
				return
			}
		}
	}()

	c := <-results
	fmt.Println("\nBy source:")
	for _, src := range sortedKeys(c.batches) {
		fmt.Printf("  %s: %d batches, %d edits\n", src, c.batches[src], c.edits[src])
	}
	fmt.Println("\nBy tile:")
	for _, name := range sortedKeys(c.tiles) {
		fmt.Printf("  %s: %d\n", name, c.tiles[name])
	}
	if c.corrupt > 0 {
		fmt.Printf("\nCorrupt batches: %d\n", c.corrupt)
	}
	return nil
}

// sendEdit публикует пакет из одной правки
func sendEdit(ctx context.Context, bus eventbus.EventBus, codec gosync.EditCodec, source string, x, y, z int, name string) error {
	t, ok := tile.ByName(name)
	if !ok {
		return fmt.Errorf("unknown tile %q", name)
	}
	edit := gosync.TileEdit{X: x, Y: y, Z: z, Type: t, Source: source, Timestamp: time.Now().UTC()}
	payload, err := codec.Encode([]gosync.TileEdit{edit})
	if err != nil {
		return err
	}

	ev := eventbus.NewEnvelope(source, eventbus.TypeTileEditBatch, payload)
	ev.Metadata = map[string]string{"edits": "1"}
	if err := bus.Publish(ctx, ev); err != nil {
		return err
	}
	fmt.Printf("✅ Sent %s at (%d,%d,%d) as %s [%s]\n", name, x, y, z, source, ev.ID)
	return nil
}

// printBatch выводит пакет в читаемом формате
func printBatch(ev *eventbus.Envelope, edits []gosync.TileEdit) {
	fmt.Printf("[%s] %s [%s] %s: %d edits\n",
		ev.Timestamp.Format("15:04:05"),
		ev.Source,
		ev.EventType,
		ev.ID,
		len(edits))
	for _, e := range edits {
		fmt.Printf("  (%d,%d,%d) -> %s at %s\n", e.X, e.Y, e.Z, tile.Name(e.Type), e.Timestamp.Format(timeFormat))
	}
}

// parseStringList парсит строку с разделителями-запятыми
func parseStringList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
