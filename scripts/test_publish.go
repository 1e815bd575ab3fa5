//go:build ignore

// Публикует задание конвертации в stream:hut:convert и ждет результат в stream:hut:done.
//
//	go run scripts/test_publish.go -source osm -record hut.json
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type convertEvent struct {
	JobID         uuid.UUID       `json:"job_id"`
	Source        string          `json:"source"`
	IncludePhotos bool            `json:"include_photos,omitempty"`
	Record        json.RawMessage `json:"record"`
}

// Blüemlisalphütte из Overpass
const defaultRecord = `{
  "type": "node",
  "id": 1381406483,
  "lat": 46.4864,
  "lon": 7.7797,
  "tags": {
    "name": "Blüemlisalphütte",
    "tourism": "alpine_hut",
    "ele": "2834",
    "operator": "SAC",
    "capacity": "138",
    "website": "https://www.bluemlisalphuette.ch"
  }
}`

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	source := flag.String("source", "osm", "Source service name")
	recordFile := flag.String("record", "", "JSON file with the source record")
	photos := flag.Bool("photos", false, "Include photos")
	flag.Parse()

	record := []byte(defaultRecord)
	if *recordFile != "" {
		data, err := os.ReadFile(*recordFile)
		if err != nil {
			log.Fatalf("Failed to read record: %v", err)
		}
		record = data
	}

	client := redis.NewClient(&redis.Options{Addr: *redisAddr})
	defer client.Close()

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	event := convertEvent{
		JobID:         uuid.New(),
		Source:        *source,
		IncludePhotos: *photos,
		Record:        record,
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	// ответ может прийти раньше, чем начнется чтение, поэтому читаем с текущего конца
	lastID := "$"
	if last, err := client.XRevRangeN(ctx, "stream:hut:done", "+", "-", 1).Result(); err == nil && len(last) > 0 {
		lastID = last[0].ID
	}

	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: "stream:hut:convert",
		Values: map[string]interface{}{"data": string(data)},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Event published: stream=stream:hut:convert id=%s job_id=%s source=%s\n", id, event.JobID, event.Source)
	fmt.Println("Waiting for response in stream:hut:done...")

	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		results, err := client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{"stream:hut:done", lastID},
			Count:   10,
			Block:   2 * time.Second,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			log.Fatalf("Failed to read responses: %v", err)
		}

		for _, stream := range results {
			for _, msg := range stream.Messages {
				lastID = msg.ID
				raw, ok := msg.Values["data"].(string)
				if !ok {
					continue
				}
				var response map[string]any
				if err := json.Unmarshal([]byte(raw), &response); err != nil {
					continue
				}
				if response["job_id"] != event.JobID.String() {
					continue
				}
				pretty, _ := json.MarshalIndent(response, "", "  ")
				fmt.Printf("Response received:\n%s\n", pretty)
				return
			}
		}
	}

	fmt.Println("Timeout waiting for response")
}
