package core

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
)

type discardSink struct{}

func (discardSink) Deliver(string, Event) {}

func benchmarkRelay(b *testing.B, recipients int) {
	directory := NewRoomDirectory(recipients + 1)
	registry := NewConnectionRegistry()
	emitter := NewEmitter(directory, discardSink{})
	logger := zerolog.Nop()
	d := NewDispatcher(directory, registry, emitter, false, &logger)

	d.HandleJoin("sender", "bench", "sender")
	for i := 0; i < recipients; i++ {
		d.HandleJoin(fmt.Sprintf("conn-%d", i), "bench", "peer")
	}

	payload := json.RawMessage(`{"roomId":"bench","body":"payload"}`)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		d.HandleMessage("sender", "bench", payload)
	}
}

func BenchmarkRelay_TwoParty(b *testing.B) { benchmarkRelay(b, 1) }
func BenchmarkRelay_10(b *testing.B)       { benchmarkRelay(b, 10) }
func BenchmarkRelay_100(b *testing.B)      { benchmarkRelay(b, 100) }
