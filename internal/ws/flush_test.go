package ws

import (
	"encoding/json"
	"testing"
	"time"
)

func TestFlushDeliversBatchToMembers(t *testing.T) {
	hub := createTestHub(nil, nil, 100)
	clientA := createTestClient(hub, 1)
	clientB := createTestClient(hub, 2)
	hub.Register(clientA)
	hub.Register(clientB)
	hub.Join(7, clientA)
	hub.Join(7, clientB)
	recvFrame(clientA)
	recvFrame(clientB)

	hub.HandleFrame(clientA, &InboundFrame{Type: FrameTypeChat, RoomID: 7, Message: "m1"})
	hub.HandleFrame(clientA, &InboundFrame{Type: FrameTypeChat, RoomID: 7, Message: "m2"})
	hub.Flush(7)

	for _, client := range []*Client{clientA, clientB} {
		data, ok := recvFrame(client)
		if !ok {
			t.Fatalf("Expected a batch frame for user %d", client.userID)
		}
		var batch BatchFrame
		if err := json.Unmarshal(data, &batch); err != nil {
			t.Fatalf("Failed to unmarshal batch frame: %v", err)
		}
		if batch.Type != FrameTypeBatch {
			t.Errorf("Expected batch frame, got %s", batch.Type)
		}
		if len(batch.Messages) != 2 {
			t.Fatalf("Expected 2 messages in batch, got %d", len(batch.Messages))
		}
		if batch.Messages[0].Message != "m1" || batch.Messages[1].Message != "m2" {
			t.Errorf("Batch order not preserved: %+v", batch.Messages)
		}
		if _, ok := recvFrame(client); ok {
			t.Errorf("Expected exactly one batch frame for user %d", client.userID)
		}
	}

	if n := hub.buffers.pendingCount(7); n != 0 {
		t.Errorf("Expected buffer to be empty after flush, got %d", n)
	}
}

func TestFlushEmptyRoomChangesNothing(t *testing.T) {
	hub := createTestHub(nil, nil, 100)
	client := createTestClient(hub, 1)
	hub.Register(client)
	hub.Join(7, client)
	recvFrame(client)

	hub.Flush(7)

	if _, ok := recvFrame(client); ok {
		t.Error("Empty flush must not produce a frame")
	}
	snap := hub.MetricsSnapshot()
	if snap.Flushes != 0 || snap.MessagesBatched != 0 || snap.FramesSent != 0 {
		t.Errorf("Empty flush must not change metrics: %+v", snap)
	}
}

func TestFlushWithoutMembersStillDrains(t *testing.T) {
	hub := createTestHub(nil, nil, 100)
	client := createTestClient(hub, 1)
	hub.Register(client)

	// Room 9 has messages but nobody joined it
	hub.HandleFrame(client, &InboundFrame{Type: FrameTypeChat, RoomID: 9, Message: "m1"})
	hub.HandleFrame(client, &InboundFrame{Type: FrameTypeChat, RoomID: 9, Message: "m2"})
	hub.Flush(9)

	if n := hub.buffers.pendingCount(9); n != 0 {
		t.Errorf("Expected buffer to be drained, got %d", n)
	}
	snap := hub.MetricsSnapshot()
	if snap.Flushes != 1 || snap.MessagesBatched != 2 {
		t.Errorf("Expected flush and message counters to move: %+v", snap)
	}
	if snap.FramesSent != 0 {
		t.Errorf("Expected no frames sent, got %d", snap.FramesSent)
	}
}

func TestBatchSizeThresholdFlushesImmediately(t *testing.T) {
	hub := createTestHub(nil, nil, 2)
	client := createTestClient(hub, 1)
	hub.Register(client)
	hub.Join(7, client)
	recvFrame(client)

	hub.HandleFrame(client, &InboundFrame{Type: FrameTypeChat, RoomID: 7, Message: "m1"})
	if _, ok := recvFrame(client); ok {
		t.Fatal("First message must not trigger a flush")
	}

	hub.HandleFrame(client, &InboundFrame{Type: FrameTypeChat, RoomID: 7, Message: "m2"})
	data, ok := recvFrame(client)
	if !ok {
		t.Fatal("Reaching the batch size must flush immediately")
	}
	var batch BatchFrame
	if err := json.Unmarshal(data, &batch); err != nil {
		t.Fatalf("Failed to unmarshal batch frame: %v", err)
	}
	if len(batch.Messages) != 2 {
		t.Fatalf("Expected 2 messages in batch, got %d", len(batch.Messages))
	}

	hub.HandleFrame(client, &InboundFrame{Type: FrameTypeChat, RoomID: 7, Message: "m3"})
	if _, ok := recvFrame(client); ok {
		t.Error("Third message must wait for the next flush")
	}
	if n := hub.buffers.pendingCount(7); n != 1 {
		t.Errorf("Expected 1 message waiting, got %d", n)
	}
}

func TestMembershipIsReadAtFlushTime(t *testing.T) {
	t.Run("LeaveBeforeFlushExcludes", func(t *testing.T) {
		hub := createTestHub(nil, nil, 100)
		leaver := createTestClient(hub, 1)
		stayer := createTestClient(hub, 2)
		hub.Register(leaver)
		hub.Register(stayer)
		hub.Join(7, leaver)
		hub.Join(7, stayer)
		recvFrame(leaver)
		recvFrame(stayer)

		hub.HandleFrame(stayer, &InboundFrame{Type: FrameTypeChat, RoomID: 7, Message: "m1"})
		hub.Leave(7, leaver)
		hub.Flush(7)

		if _, ok := recvFrame(leaver); ok {
			t.Error("Client that left before the flush must not receive the batch")
		}
		if _, ok := recvFrame(stayer); !ok {
			t.Error("Remaining member should receive the batch")
		}
	})

	t.Run("JoinAfterAppendIncludes", func(t *testing.T) {
		hub := createTestHub(nil, nil, 100)
		sender := createTestClient(hub, 1)
		latecomer := createTestClient(hub, 2)
		hub.Register(sender)
		hub.Register(latecomer)
		hub.Join(7, sender)
		recvFrame(sender)

		hub.HandleFrame(sender, &InboundFrame{Type: FrameTypeChat, RoomID: 7, Message: "m1"})
		hub.Join(7, latecomer)
		recvFrame(latecomer)
		hub.Flush(7)

		if _, ok := recvFrame(latecomer); !ok {
			t.Error("Client that joined before the flush should receive the batch")
		}
	})
}

func TestFanoutSkipsFailedMembers(t *testing.T) {
	hub := createTestHub(nil, nil, 100)
	healthy := createTestClient(hub, 1)
	dead := createTestClient(hub, 2)
	hub.Register(healthy)
	hub.Register(dead)
	hub.Join(7, healthy)
	hub.Join(7, dead)
	recvFrame(healthy)
	recvFrame(dead)
	dead.close()

	hub.HandleFrame(healthy, &InboundFrame{Type: FrameTypeChat, RoomID: 7, Message: "m1"})
	hub.Flush(7)

	if _, ok := recvFrame(healthy); !ok {
		t.Fatal("Healthy member should receive the batch")
	}
	snap := hub.MetricsSnapshot()
	if snap.FramesSent != 1 {
		t.Errorf("Expected 1 sent frame, got %d", snap.FramesSent)
	}
	if snap.Flushes != 1 || snap.MessagesBatched != 1 {
		t.Errorf("Unexpected flush counters: %+v", snap)
	}
}

func TestRunFlushesOnTimer(t *testing.T) {
	hub := NewHub(nil, nil, 20*time.Millisecond, 100)
	go hub.Run()
	defer hub.Stop()

	client := createTestClient(hub, 1)
	hub.Register(client)
	hub.Join(7, client)
	recvFrame(client)

	hub.HandleFrame(client, &InboundFrame{Type: FrameTypeChat, RoomID: 7, Message: "m1"})

	deadline := time.After(2 * time.Second)
	select {
	case data := <-client.send:
		var batch BatchFrame
		if err := json.Unmarshal(data, &batch); err != nil {
			t.Fatalf("Failed to unmarshal batch frame: %v", err)
		}
		if len(batch.Messages) != 1 || batch.Messages[0].Message != "m1" {
			t.Fatalf("Unexpected batch: %+v", batch.Messages)
		}
	case <-deadline:
		t.Fatal("Timed out waiting for the timer flush")
	}
}

func TestStopHaltsFlushLoop(t *testing.T) {
	hub := NewHub(nil, nil, 10*time.Millisecond, 100)
	done := make(chan struct{})
	go func() {
		hub.Run()
		close(done)
	}()

	client := createTestClient(hub, 1)
	hub.Register(client)
	hub.Join(7, client)
	recvFrame(client)

	hub.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run should return after Stop")
	}

	// Nothing flushes messages buffered after the stop
	hub.buffers.append(7, PendingMessage{Type: FrameTypeChat, Message: "late", RoomID: 7})
	time.Sleep(50 * time.Millisecond)
	if n := hub.buffers.pendingCount(7); n != 1 {
		t.Errorf("Expected the late message to stay buffered, got %d", n)
	}
}

func TestSinkReceivesFlushedBatches(t *testing.T) {
	sink := &mockSink{}
	hub := createTestHub(nil, sink, 100)
	client := createTestClient(hub, 1)
	hub.Register(client)
	hub.Join(7, client)
	recvFrame(client)

	hub.HandleFrame(client, &InboundFrame{Type: FrameTypeChat, RoomID: 7, Message: "m1"})
	hub.Flush(7)

	published := sink.publishedBatches()
	if len(published) != 1 {
		t.Fatalf("Expected 1 published batch, got %d", len(published))
	}
	if published[0].roomID != 7 {
		t.Errorf("Expected room 7, got %d", published[0].roomID)
	}
	var batch BatchFrame
	if err := json.Unmarshal(published[0].frame, &batch); err != nil {
		t.Fatalf("Failed to unmarshal published frame: %v", err)
	}
	if len(batch.Messages) != 1 || batch.Messages[0].Message != "m1" {
		t.Errorf("Unexpected published batch: %+v", batch.Messages)
	}

	// An empty flush publishes nothing
	hub.Flush(7)
	if len(sink.publishedBatches()) != 1 {
		t.Error("Empty flush must not publish a batch")
	}
}
