package kafka

import (
	"fmt"

	"github.com/IBM/sarama"

	basisv1 "basislab/api/v1"
	"basislab/sink"
)

type Config struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	Acks    int16    `yaml:"required_acks"` // 0,1,-1
	Version string   `yaml:"version"`
}

type driver struct {
	cfg Config
	p   sarama.SyncProducer
}

func (d *driver) Configure(c any) error {
	cfg, ok := c.(Config)
	if !ok {
		return fmt.Errorf("kafka-sink: want Config, got %T", c)
	}
	if cfg.Topic == "" {
		return fmt.Errorf("kafka-sink: topic is required")
	}
	d.cfg = cfg
	if d.p != nil {
		return nil
	}

	sc := sarama.NewConfig()
	sc.Producer.RequiredAcks = sarama.RequiredAcks(cfg.Acks)
	sc.Producer.Return.Successes = true
	if cfg.Version != "" {
		ver, err := sarama.ParseKafkaVersion(cfg.Version)
		if err != nil {
			return err
		}
		sc.Version = ver
	}
	var err error
	d.p, err = sarama.NewSyncProducer(cfg.Brokers, sc)
	return err
}

// Push publishes the JSON outcome keyed by case id.
func (d *driver) Push(o *basisv1.Outcome) error {
	val, err := o.Encode()
	if err != nil {
		return err
	}
	_, _, err = d.p.SendMessage(&sarama.ProducerMessage{
		Topic: d.cfg.Topic,
		Key:   sarama.StringEncoder(o.Case.ID),
		Value: sarama.ByteEncoder(val),
	})
	if err != nil {
		return fmt.Errorf("kafka-sink: %w", err)
	}
	return nil
}

func (d *driver) Close() error {
	if d.p == nil {
		return nil
	}
	err := d.p.Close()
	d.p = nil
	return err
}

func init() { sink.Register("kafka", func() sink.Adapter { return &driver{} }) }
