package mgo

import (
	"context"
	"sync"

	"pairlink/data/mongoutil"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	mu     sync.RWMutex
	client *mongoutil.Client
)

// Init connects the process-wide mongo handle. Store types hold the
// *mongo.Database they were built with; this global exists for boot wiring.
func Init(ctx context.Context, cfg *mongoutil.Config) error {
	cli, err := mongoutil.NewMongoDB(ctx, cfg)
	if err != nil {
		return err
	}
	mu.Lock()
	client = cli
	mu.Unlock()
	return nil
}

func GetDB() *mongo.Database {
	mu.RLock()
	defer mu.RUnlock()
	if client == nil {
		panic("mongo not ready: call mgo.Init first")
	}
	return client.GetDB()
}

func TryGetDB() (*mongo.Database, bool) {
	mu.RLock()
	defer mu.RUnlock()
	if client == nil {
		return nil, false
	}
	return client.GetDB(), true
}
