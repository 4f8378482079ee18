package service

import (
	"context"
	"encoding/json"

	"venture-ai-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IPublisherService interface {
	PublishAnalysisJob(ctx context.Context, jobId string) error
}

type publisherService struct {
	pubSub    *gochannel.GoChannel
	topicName string
}

func NewPublisherService(pubSub *gochannel.GoChannel, topicName string) IPublisherService {
	return &publisherService{pubSub: pubSub, topicName: topicName}
}

func (p *publisherService) PublishAnalysisJob(ctx context.Context, jobId string) error {
	payload, err := json.Marshal(dto.PublishAnalysisJobMessage{JobId: jobId})
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	return p.pubSub.Publish(p.topicName, msg)
}
