package session

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestQueue(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Command Queue Suite")
}

var _ = Describe("Command Queue", Label("scope:unit", "layer:session"), func() {
	Describe("Queue Creation", func() {
		It("creates a queue with the given max size", func() {
			queue := NewCommandQueue(100)
			Expect(queue.maxSize).To(Equal(100))
			Expect(queue.Size()).To(Equal(0))
			Expect(queue.IsEmpty()).To(BeTrue())
		})
	})

	Describe("Basic Operations", func() {
		It("enqueue adds a command line", func() {
			queue := NewCommandQueue(10)
			Expect(queue.Enqueue(1, "sim.tick 1")).To(BeTrue())
			Expect(queue.Size()).To(Equal(1))
			Expect(queue.IsEmpty()).To(BeFalse())
		})

		It("dequeue retrieves the command line", func() {
			queue := NewCommandQueue(10)
			queue.Enqueue(1, "sim.tick 1")
			dequeued, ok := queue.Dequeue()
			Expect(ok).To(BeTrue())
			Expect(dequeued.Sequence).To(Equal(uint32(1)))
			Expect(dequeued.Line).To(Equal("sim.tick 1"))
			Expect(queue.Size()).To(Equal(0))
		})

		It("dequeue returns false when empty", func() {
			queue := NewCommandQueue(10)
			_, ok := queue.Dequeue()
			Expect(ok).To(BeFalse())
		})

		It("peek returns the next command line without removing it", func() {
			queue := NewCommandQueue(10)
			queue.Enqueue(1, "sim.toggle")
			peeked, ok := queue.Peek()
			Expect(ok).To(BeTrue())
			Expect(peeked.Line).To(Equal("sim.toggle"))
			Expect(queue.Size()).To(Equal(1))
		})

		It("clear empties the queue", func() {
			queue := NewCommandQueue(10)
			queue.Enqueue(1, "a")
			queue.Enqueue(2, "b")
			queue.Clear()
			Expect(queue.Size()).To(Equal(0))
			Expect(queue.IsEmpty()).To(BeTrue())
		})
	})

	Describe("Sequence-Based Deduplication", func() {
		It("rejects a duplicate sequence number", func() {
			queue := NewCommandQueue(10)
			Expect(queue.Enqueue(1, "a")).To(BeTrue())
			Expect(queue.Enqueue(1, "b")).To(BeFalse())
			Expect(queue.Size()).To(Equal(1))
			dequeued, _ := queue.Dequeue()
			Expect(dequeued.Line).To(Equal("a"))
		})

		It("accepts distinct sequence numbers", func() {
			queue := NewCommandQueue(10)
			Expect(queue.Enqueue(1, "a")).To(BeTrue())
			Expect(queue.Enqueue(2, "b")).To(BeTrue())
			Expect(queue.Size()).To(Equal(2))
		})
	})

	Describe("Command Ordering", func() {
		It("dequeues commands in sequence order regardless of insertion order", func() {
			queue := NewCommandQueue(10)
			queue.Enqueue(3, "c")
			queue.Enqueue(1, "a")
			queue.Enqueue(2, "b")

			var lines []string
			for !queue.IsEmpty() {
				cmd, _ := queue.Dequeue()
				lines = append(lines, cmd.Line)
			}
			Expect(lines).To(Equal([]string{"a", "b", "c"}))
		})

		It("handles sequence gaps correctly", func() {
			queue := NewCommandQueue(10)
			queue.Enqueue(1, "a")
			queue.Enqueue(5, "e")
			queue.Enqueue(3, "c")

			cmd1, _ := queue.Dequeue()
			Expect(cmd1.Sequence).To(Equal(uint32(1)))
			cmd2, _ := queue.Dequeue()
			Expect(cmd2.Sequence).To(Equal(uint32(3)))
			cmd3, _ := queue.Dequeue()
			Expect(cmd3.Sequence).To(Equal(uint32(5)))
		})
	})

	Describe("Queue Bounds", func() {
		It("enforces the max size limit", func() {
			queue := NewCommandQueue(2)
			Expect(queue.Enqueue(1, "a")).To(BeTrue())
			Expect(queue.Enqueue(2, "b")).To(BeTrue())
			Expect(queue.Enqueue(3, "c")).To(BeFalse())
			Expect(queue.Size()).To(Equal(2))
		})

		It("accepts a command after dequeue makes space", func() {
			queue := NewCommandQueue(2)
			queue.Enqueue(1, "a")
			queue.Enqueue(2, "b")
			Expect(queue.Enqueue(3, "c")).To(BeFalse())
			queue.Dequeue()
			Expect(queue.Enqueue(3, "c")).To(BeTrue())
		})
	})

	Describe("Sequence Number Handling", func() {
		It("rejects a sequence already processed", func() {
			queue := NewCommandQueue(10)
			queue.Enqueue(1, "a")
			queue.Dequeue()
			Expect(queue.Enqueue(1, "a-again")).To(BeFalse())
		})

		It("accepts a future sequence number", func() {
			queue := NewCommandQueue(10)
			queue.Enqueue(1, "a")
			Expect(queue.Enqueue(5, "e")).To(BeTrue())
		})
	})
})
