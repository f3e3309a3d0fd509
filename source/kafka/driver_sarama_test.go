package kafka

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/IBM/sarama"

	basisv1 "basislab/api/v1"
	"basislab/internal/basis"
)

func TestCaseFromMessage_KeyAndFallbackID(t *testing.T) {
	msg := &sarama.ConsumerMessage{
		Topic: "cases", Partition: 2, Offset: 99,
		Key:   []byte("k1"),
		Value: []byte(`{"input":{"point":{"x":2,"y":1},"basis1":{"x":1,"y":0},"basis2":{"x":0,"y":1}}}`),
	}
	c, err := caseFromMessage(msg)
	if err != nil {
		t.Fatalf("caseFromMessage: %v", err)
	}
	if c.ID != "k1" || c.Input.Point != basis.V(2, 1) {
		t.Fatalf("unexpected case %+v", c)
	}

	msg.Key = nil
	c, err = caseFromMessage(msg)
	if err != nil {
		t.Fatalf("caseFromMessage: %v", err)
	}
	if c.ID != "cases/2@99" {
		t.Fatalf("unexpected fallback id %q", c.ID)
	}

	msg.Value = []byte("not json")
	if _, err := caseFromMessage(msg); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestLoadConfig_FileEnvAndDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kafka.yml")
	body := []byte(`schema_version: v1
brokers: [localhost:9092]
topics: [basis-cases]
start_from: oldest
`)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("BASIS_KAFKA__GROUP_ID", "explorers")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.GroupID != "explorers" {
		t.Fatalf("env override lost, group=%q", cfg.GroupID)
	}
	if cfg.CommitInt != 5*time.Second || cfg.Version != "2.8.0" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}

	sc, err := saramaConfig(cfg)
	if err != nil {
		t.Fatalf("saramaConfig: %v", err)
	}
	if sc.Consumer.Offsets.Initial != sarama.OffsetOldest {
		t.Fatal("start_from oldest not honoured")
	}
}

func TestLoadConfig_RequiresBrokers(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatal("expected error without brokers/topics")
	}
}

func TestDriver_ConfigureRejectsWrongType(t *testing.T) {
	d := &SaramaDriver{}
	if err := d.Configure("brokers"); err == nil {
		t.Fatal("expected type error")
	}
}

type fakeSession struct {
	sarama.ConsumerGroupSession
	ctx    context.Context
	marked []int64
}

func (s *fakeSession) Context() context.Context { return s.ctx }
func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.marked = append(s.marked, msg.Offset)
}

type fakeClaim struct {
	sarama.ConsumerGroupClaim
	msgs chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.msgs }

func claimOf(values ...string) *fakeClaim {
	c := &fakeClaim{msgs: make(chan *sarama.ConsumerMessage, len(values))}
	for i, v := range values {
		c.msgs <- &sarama.ConsumerMessage{Topic: "cases", Offset: int64(i), Value: []byte(v)}
	}
	close(c.msgs)
	return c
}

const identityCase = `{"input":{"point":{"x":2,"y":1},"basis1":{"x":1,"y":0},"basis2":{"x":0,"y":1}}}`

func TestConsumeClaim_EmitsAndMarks(t *testing.T) {
	var got []basisv1.Case
	h := &groupHandler{emit: func(c basisv1.Case) error { got = append(got, c); return nil }}
	sess := &fakeSession{ctx: context.Background()}

	if err := h.ConsumeClaim(sess, claimOf(identityCase, "not json", identityCase)); err != nil {
		t.Fatalf("ConsumeClaim: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 emitted cases, got %d", len(got))
	}
	if len(sess.marked) != 3 {
		t.Fatalf("expected every offset marked, got %v", sess.marked)
	}
	if h.failure() != nil {
		t.Fatalf("unexpected failure %v", h.failure())
	}
}

func TestConsumeClaim_EmitErrorStopsSession(t *testing.T) {
	boom := errors.New("sink down")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	h := &groupHandler{
		emit:   func(basisv1.Case) error { calls++; return boom },
		cancel: cancel,
	}
	sess := &fakeSession{ctx: ctx}

	err := h.ConsumeClaim(sess, claimOf(identityCase, identityCase))
	if !errors.Is(err, boom) {
		t.Fatalf("expected emit error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected consumption to stop after the failure, got %d calls", calls)
	}
	if len(sess.marked) != 0 {
		t.Fatalf("failed message must not be marked, got %v", sess.marked)
	}
	if !errors.Is(h.failure(), boom) {
		t.Fatalf("failure not recorded: %v", h.failure())
	}
	if ctx.Err() == nil {
		t.Fatal("expected the consume context to be cancelled")
	}

	h.fail(errors.New("later"))
	if !errors.Is(h.failure(), boom) {
		t.Fatalf("first failure must win, got %v", h.failure())
	}
}
