// Package qdrant reads stored embeddings and their text payloads from a
// Qdrant collection over gRPC, so a run can start from vectors that already
// live in a vector database instead of a file.
package qdrant

import (
	"context"
	"errors"
	"fmt"

	"github.com/alDuncanson/thoughtmap/dataimport"

	"github.com/google/uuid"
	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Payload keys read from every point.
const (
	payloadText         = "text"
	payloadSource       = "source"
	payloadConversation = "conversation"
	payloadTimestamp    = "timestamp"
)

// DefaultPageSize is the number of points fetched per scroll request.
const DefaultPageSize = 256

// ErrCollectionNotFound is returned when the configured collection does not exist.
var ErrCollectionNotFound = errors.New("qdrant collection not found")

// Client wraps a gRPC connection to a Qdrant instance and one collection.
type Client struct {
	connection        *grpc.ClientConn
	pointsClient      pb.PointsClient
	collectionsClient pb.CollectionsClient
	collectionName    string
	pageSize          uint32
}

// NewClient connects to address and checks that collectionName exists.
// A pageSize of zero uses DefaultPageSize.
func NewClient(ctx context.Context, address, collectionName string, pageSize uint32) (*Client, error) {
	connection, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("connect to qdrant: %w", err)
	}

	if pageSize == 0 {
		pageSize = DefaultPageSize
	}

	client := &Client{
		connection:        connection,
		pointsClient:      pb.NewPointsClient(connection),
		collectionsClient: pb.NewCollectionsClient(connection),
		collectionName:    collectionName,
		pageSize:          pageSize,
	}

	if err := client.ensureCollectionExists(ctx); err != nil {
		connection.Close()
		return nil, err
	}

	return client, nil
}

func (client *Client) ensureCollectionExists(ctx context.Context) error {
	response, err := client.collectionsClient.CollectionExists(ctx, &pb.CollectionExistsRequest{
		CollectionName: client.collectionName,
	})
	if err != nil {
		return fmt.Errorf("check collection: %w", err)
	}
	if !response.GetResult().GetExists() {
		return fmt.Errorf("%w: %s", ErrCollectionNotFound, client.collectionName)
	}
	return nil
}

// Samples scrolls through the whole collection and returns every point that
// carries a dense vector, in the order Qdrant returns them.
func (client *Client) Samples(ctx context.Context) ([]dataimport.Sample, error) {
	var samples []dataimport.Sample
	var offset *pb.PointId

	for {
		response, err := client.pointsClient.Scroll(ctx, &pb.ScrollPoints{
			CollectionName: client.collectionName,
			Offset:         offset,
			Limit:          pb.PtrOf(client.pageSize),
			WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
			WithVectors:    &pb.WithVectorsSelector{SelectorOptions: &pb.WithVectorsSelector_Enable{Enable: true}},
		})
		if err != nil {
			return nil, fmt.Errorf("scroll points: %w", err)
		}

		for _, point := range response.GetResult() {
			if sample, ok := sampleFromPoint(point); ok {
				samples = append(samples, sample)
			}
		}

		offset = response.GetNextPageOffset()
		if offset == nil {
			return samples, nil
		}
	}
}

// sampleFromPoint converts a retrieved point, skipping points without a
// dense vector.
func sampleFromPoint(point *pb.RetrievedPoint) (dataimport.Sample, bool) {
	vector := point.GetVectors().GetVector().GetData()
	if len(vector) == 0 {
		return dataimport.Sample{}, false
	}

	payload := point.GetPayload()
	return dataimport.Sample{
		ID:           PointID(point.GetId()),
		Text:         payload[payloadText].GetStringValue(),
		Vector:       vector,
		Source:       payload[payloadSource].GetStringValue(),
		Conversation: payload[payloadConversation].GetStringValue(),
		Timestamp:    numericValue(payload[payloadTimestamp]),
	}, true
}

// numericValue accepts timestamps stored as either doubles or integers.
func numericValue(value *pb.Value) float64 {
	switch kind := value.GetKind().(type) {
	case *pb.Value_DoubleValue:
		return kind.DoubleValue
	case *pb.Value_IntegerValue:
		return float64(kind.IntegerValue)
	default:
		return 0
	}
}

// PointID renders a point identifier. UUIDs are normalized to their
// canonical form; numeric IDs are printed in decimal.
func PointID(id *pb.PointId) string {
	if raw := id.GetUuid(); raw != "" {
		if parsed, err := uuid.Parse(raw); err == nil {
			return parsed.String()
		}
		return raw
	}
	if id == nil {
		return ""
	}
	return fmt.Sprintf("%d", id.GetNum())
}

// Close terminates the gRPC connection to the Qdrant server.
func (client *Client) Close() error {
	return client.connection.Close()
}
