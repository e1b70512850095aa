package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	recorder "github.com/kmorrow14/redis-recorder"
)

func main() {
	cfg := recorder.MustLoadConfig()

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()

		if err := client.Ping(ctx).Err(); err != nil {
			slog.Error("Ping to Redis failed", slog.String("addr", cfg.Addr()), slog.Any("err", err))
			os.Exit(1)
		}
	}()

	store := recorder.New(client)
	ctx := context.Background()

	k1, err := store.Store(ctx, "foo")
	fatalOn(err)
	fmt.Println(k1)

	k2, err := store.Store(ctx, "bar")
	fatalOn(err)
	fmt.Println(k2)

	k3, err := store.Store(ctx, 42)
	fatalOn(err)
	fmt.Println(k3)

	s, _, err := store.RetrieveString(ctx, k1)
	fatalOn(err)
	fmt.Println(s)

	n, _, err := store.RetrieveInt(ctx, k3)
	fatalOn(err)
	fmt.Println(n)

	if _, found, err := store.RetrieveString(ctx, "nonexistent-key"); err != nil {
		fatalOn(err)
	} else if !found {
		fmt.Println("nonexistent-key: no value")
	}

	count, err := store.Count(ctx, recorder.OperationStore)
	fatalOn(err)
	fmt.Printf("store invoked %d times\n", count)

	fatalOn(store.WriteReplay(ctx, os.Stdout, recorder.OperationStore))
}

func fatalOn(err error) {
	if err != nil {
		slog.Error("redis-recorder example failed", slog.Any("err", err))
		os.Exit(1)
	}
}
