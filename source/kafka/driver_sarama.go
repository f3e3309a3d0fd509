package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	basisv1 "basislab/api/v1"
	"basislab/internal/logging"
	"basislab/source"
)

// SaramaDriver consumes JSON-encoded cases from a consumer group.
type SaramaDriver struct {
	cfg   Config
	cl    sarama.Client
	group sarama.ConsumerGroup
}

func (d *SaramaDriver) Configure(raw any) error {
	config, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("kafka-source: expected Config, got %T", raw)
	}
	d.cfg = config

	sc, err := saramaConfig(config)
	if err != nil {
		return err
	}
	if d.cl, err = sarama.NewClient(config.Brokers, sc); err != nil {
		return err
	}
	d.group, err = sarama.NewConsumerGroupFromClient(config.GroupID, d.cl)
	return err
}

func saramaConfig(config Config) (*sarama.Config, error) {
	ver, err := sarama.ParseKafkaVersion(config.Version)
	if err != nil {
		return nil, err
	}
	sc := sarama.NewConfig()
	sc.Version = ver
	sc.Consumer.Return.Errors = true
	sc.Consumer.Offsets.AutoCommit.Enable = true
	sc.Consumer.Offsets.AutoCommit.Interval = config.CommitInt
	if config.TLSEn {
		sc.Net.TLS.Enable = true
	}
	if config.SASLUser != "" {
		sc.Net.SASL.Enable = true
		sc.Net.SASL.User, sc.Net.SASL.Password = config.SASLUser, config.SASLPass
	}
	switch config.StartFrom {
	case "oldest":
		sc.Consumer.Offsets.Initial = sarama.OffsetOldest
	default:
		sc.Consumer.Offsets.Initial = sarama.OffsetNewest
	}
	return sc, nil
}

// Run consumes until ctx is done, the group is closed, or emit fails. An
// emit failure ends the session without marking the message and is
// returned.
func (d *SaramaDriver) Run(ctx context.Context, emit source.EmitFunc) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	handler := &groupHandler{emit: emit, cancel: cancel}

	go func() {
		for err := range d.group.Errors() {
			logging.L().Warn("kafka-source: consumer error", zap.Error(err))
		}
	}()

	for {
		err := d.group.Consume(ctx, d.cfg.Topics, handler)
		if ferr := handler.failure(); ferr != nil {
			return ferr
		}
		if err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (d *SaramaDriver) Close() error {
	if d.group != nil {
		_ = d.group.Close()
	}
	if d.cl != nil && !d.cl.Closed() {
		return d.cl.Close()
	}
	return nil
}

type groupHandler struct {
	emit   source.EmitFunc
	cancel context.CancelFunc

	mu  sync.Mutex
	err error
}

// fail records the first emit error and stops the session.
func (h *groupHandler) fail(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return
	}
	h.err = err
	if h.cancel != nil {
		h.cancel()
	}
}

func (h *groupHandler) failure() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

func (*groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (*groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(
	sess sarama.ConsumerGroupSession,
	claim sarama.ConsumerGroupClaim,
) error {
	for {
		select {
		case <-sess.Context().Done():
			return nil

		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			c, err := caseFromMessage(msg)
			if err != nil {
				// A malformed payload is skipped so it does not block the partition.
				logging.L().Warn("kafka-source: skipping message",
					zap.String("topic", msg.Topic),
					zap.Int32("partition", msg.Partition),
					zap.Int64("offset", msg.Offset),
					zap.Error(err))
				sess.MarkMessage(msg, "")
				continue
			}
			if h.failure() != nil {
				return nil
			}
			if err := h.emit(c); err != nil {
				h.fail(err)
				return err
			}
			sess.MarkMessage(msg, "")
		}
	}
}

// caseFromMessage decodes msg.Value. The key, or topic/partition@offset,
// stands in for a missing id.
func caseFromMessage(msg *sarama.ConsumerMessage) (basisv1.Case, error) {
	id := string(msg.Key)
	if id == "" {
		id = fmt.Sprintf("%s/%d@%d", msg.Topic, msg.Partition, msg.Offset)
	}
	return basisv1.DecodeCase(msg.Value, id)
}

func init() {
	source.Register("kafka", func() source.Adapter { return &SaramaDriver{} })
}
