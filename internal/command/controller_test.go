package command

import (
	"fmt"
	"testing"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestController(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Controller Suite")
}

var _ = Describe("Controller", Label("scope:unit", "layer:command"), func() {
	var c *Controller
	var feedbacks []string

	BeforeEach(func() {
		feedbacks = nil
		c = NewController("Test", logr.Discard(), func(msg string) { feedbacks = append(feedbacks, msg) })
	})

	It("registers and dispatches a command", func() {
		err := c.RegisterCommand("ping", "Ping\nN Times to say it", func(args *Args) (string, error) {
			return fmt.Sprintf("pong x%v", args.Positional[0]), nil
		})
		Expect(err).NotTo(HaveOccurred())
		out, err := c.DoCommand("ping", "3")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("pong x3"))
	})

	It("rejects a duplicate registration", func() {
		reg := func(args *Args) (string, error) { return "", nil }
		Expect(c.RegisterCommand("noop", "Does nothing", reg)).To(Succeed())
		Expect(c.RegisterCommand("noop", "Does nothing", reg)).To(HaveOccurred())
	})

	It("emits feedback and no error for an unknown command", func() {
		out, err := c.DoCommand("bogus", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(BeEmpty())
		Expect(feedbacks).To(HaveLen(1))
	})

	It("surfaces a parse error through feedback and the return value", func() {
		c.RegisterCommand("needsarg", "Needs an arg\nN Some number", func(args *Args) (string, error) {
			return "", nil
		})
		_, err := c.DoCommand("needsarg", "")
		Expect(err).To(HaveOccurred())
		Expect(feedbacks).To(HaveLen(1))
	})

	It("splits a line on && into independent statements", func() {
		c.RegisterCommand("a", "A", func(args *Args) (string, error) { return "A-ran", nil })
		c.RegisterCommand("b", "B", func(args *Args) (string, error) { return "B-ran", nil })
		out, err := c.ExecuteLine("a && b")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("A-ran\nB-ran"))
	})

	It("recognizes the HTML-escaped && form", func() {
		c.RegisterCommand("a", "A", func(args *Args) (string, error) { return "A-ran", nil })
		out, err := c.ExecuteLine("a &amp;&amp; a")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("A-ran\nA-ran"))
	})

	It("expands a single level of alias before dispatch", func() {
		c.RegisterCommand("real", "Real", func(args *Args) (string, error) { return "real-ran", nil })
		c.SetAliases(map[string]string{"shortcut": "real"})
		out, err := c.DoCommand("shortcut", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("real-ran"))
	})

	It("returns a cached value for a name with no registered command", func() {
		Expect(c.Cache("static", "hello")).To(Succeed())
		out, err := c.DoCommand("static", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("hello"))
		Expect(c.HasCached("static")).To(BeTrue())
		Expect(c.Has("static")).To(BeTrue())
	})
})
