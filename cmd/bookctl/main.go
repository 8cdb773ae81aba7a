// Command bookctl drives a single matchbook.OrderBook from a line-oriented
// command script, for manual or scripted exercise of the library. It is not
// a transport layer: there is no network socket, no multi-symbol routing,
// and no persistence backend — it is a single-process harness analogous to
// the teacher repo's own cmd/main.go driving its engine.Engine.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"matchbook"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

func main() {
	symbolFlag := flag.String("symbol", "DEMO", "trading symbol to drive")
	scriptPath := flag.String("script", "", "path to a command script; defaults to stdin")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	symbol, err := matchbook.NewSymbol(*symbolFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid symbol")
	}
	book := matchbook.NewOrderBook(symbol)

	t, ctx := tomb.WithContext(ctx)
	t.Go(func() error {
		return drive(ctx, book, *scriptPath)
	})

	<-ctx.Done()
	if err := t.Wait(); err != nil && err != context.Canceled {
		log.Error().Err(err).Msg("bookctl exited with error")
		os.Exit(1)
	}
}

// drive reads one command per line from scriptPath (or stdin when empty)
// until EOF or the tomb is killed, e.g. by SIGINT/SIGTERM.
func drive(ctx context.Context, book *matchbook.OrderBook, scriptPath string) error {
	var r io.Reader = os.Stdin
	if scriptPath != "" {
		f, err := os.Open(scriptPath)
		if err != nil {
			return fmt.Errorf("opening script: %w", err)
		}
		defer f.Close()
		r = f
	}

	known := map[string]matchbook.OrderID{}
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := handleLine(book, known, line); err != nil {
			log.Error().Err(err).Str("line", line).Msg("command failed")
		}
	}
	return scanner.Err()
}

// handleLine parses and executes a single command:
//
//	SUBMIT <BUY|SELL> <price> <qty> <label>
//	CANCEL <label>
//	DEPTH [levels]
//	BEST
//	SNAPSHOT <path>
func handleLine(book *matchbook.OrderBook, known map[string]matchbook.OrderID, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch strings.ToUpper(fields[0]) {
	case "SUBMIT":
		return handleSubmit(book, known, fields[1:])
	case "CANCEL":
		return handleCancel(book, known, fields[1:])
	case "DEPTH":
		return handleDepth(book, fields[1:])
	case "BEST":
		handleBest(book)
		return nil
	case "SNAPSHOT":
		return handleSnapshot(book, fields[1:])
	default:
		return fmt.Errorf("unknown command %q", fields[0])
	}
}

func handleSubmit(book *matchbook.OrderBook, known map[string]matchbook.OrderID, args []string) error {
	if len(args) < 4 {
		return fmt.Errorf("usage: SUBMIT <BUY|SELL> <price> <qty> <label>")
	}

	var side matchbook.Side
	switch strings.ToUpper(args[0]) {
	case "BUY":
		side = matchbook.Buy
	case "SELL":
		side = matchbook.Sell
	default:
		return fmt.Errorf("unknown side %q", args[0])
	}

	price, err := matchbook.PriceFromString(args[1])
	if err != nil {
		return err
	}

	qtyVal, err := strconv.ParseUint(args[2], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid quantity %q: %w", args[2], err)
	}
	qty, err := matchbook.NewQuantity(qtyVal)
	if err != nil {
		return err
	}

	label := args[3]
	id := matchbook.NewOrderID()
	order := matchbook.NewOrder(matchbook.RealClock(), id, matchbook.NewUserID(), side, price, qty)

	trades, err := book.AddOrder(order)
	if err != nil {
		return err
	}

	known[label] = id
	log.Info().
		Str("label", label).
		Str("order_id", id.String()).
		Int("trade_count", len(trades)).
		Msg("order submitted")
	for _, trade := range trades {
		log.Info().Object("trade", trade).Msg("trade executed")
	}
	return nil
}

func handleCancel(book *matchbook.OrderBook, known map[string]matchbook.OrderID, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: CANCEL <label>")
	}
	id, ok := known[args[0]]
	if !ok {
		return fmt.Errorf("unknown order label %q", args[0])
	}
	cancelled, err := book.CancelOrder(id)
	if err != nil {
		return err
	}
	log.Info().Str("label", args[0]).Str("status", cancelled.Status.String()).Msg("order cancelled")
	return nil
}

func handleDepth(book *matchbook.OrderBook, args []string) error {
	k := 5
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid depth %q: %w", args[0], err)
		}
		k = v
	}
	depth := book.MarketDepth(k)
	log.Info().Interface("depth", depth).Msg("market depth")
	return nil
}

func handleBest(book *matchbook.OrderBook) {
	event := log.Info()
	if bid, ok := book.BestBid(); ok {
		event = event.Str("best_bid", bid.String())
	}
	if ask, ok := book.BestAsk(); ok {
		event = event.Str("best_ask", ask.String())
	}
	event.Msg("best prices")
}

func handleSnapshot(book *matchbook.OrderBook, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: SNAPSHOT <path>")
	}
	data, err := book.Serialize()
	if err != nil {
		return err
	}
	return os.WriteFile(args[0], data, 0o644)
}
