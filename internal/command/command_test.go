package command

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCommand(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Command Suite")
}

const flyDocstring = `
Order a ship to fly to a deep space object
OID Ship ID to order
TARGET_OID Target ID to fly to
-s CRUISE_SPEED Maximum cruising speed
-+look AUTO_LOOK Automatically turn camera to look at target
`

const patrolDocstring = `
Order a ship to patrol between celestial objects
OID Ship ID to order
*TARGET_OIDS Objects to patrol between
`

var _ = Describe("ParseArgSpec", Label("scope:unit", "layer:command"), func() {
	It("parses positionals and flags from a docstring", func() {
		spec, err := ParseArgSpec(flyDocstring)
		Expect(err).NotTo(HaveOccurred())
		Expect(spec.Desc).To(Equal("Order a ship to fly to a deep space object"))
		Expect(spec.Positionals).To(HaveLen(2))
		Expect(spec.Flags).To(HaveKey("s"))
		Expect(spec.Flags["s"].Kind).To(Equal(flagValue))
		Expect(spec.Flags).To(HaveKey("look"))
		Expect(spec.Flags["look"].Kind).To(Equal(flagBool))
	})

	It("marks a trailing *-prefixed positional as variadic", func() {
		spec, err := ParseArgSpec(patrolDocstring)
		Expect(err).NotTo(HaveOccurred())
		Expect(spec.Positionals).To(HaveLen(2))
		Expect(spec.Positionals[1].Variadic).To(BeTrue())
	})
})

var _ = Describe("ArgSpec.Parse", Label("scope:unit", "layer:command"), func() {
	It("coerces numeric tokens and fills flags", func() {
		spec, _ := ParseArgSpec(flyDocstring)
		args, err := spec.Parse("3 7 -s 250 -+look")
		Expect(err).NotTo(HaveOccurred())
		Expect(args.Positional).To(Equal([]interface{}{3, 7}))
		Expect(args.Flags["s"]).To(Equal(250))
		Expect(args.Flags["look"]).To(Equal(true))
	})

	It("defaults a boolean flag's absence to not being set at all", func() {
		spec, _ := ParseArgSpec(flyDocstring)
		args, err := spec.Parse("3 7")
		Expect(err).NotTo(HaveOccurred())
		Expect(args.Flags).NotTo(HaveKey("look"))
	})

	It("collects a variadic positional as a slice", func() {
		spec, _ := ParseArgSpec(patrolDocstring)
		args, err := spec.Parse("3 10 11 12")
		Expect(err).NotTo(HaveOccurred())
		Expect(args.Positional[0]).To(Equal(3))
		Expect(args.Positional[1]).To(Equal([]interface{}{10, 11, 12}))
	})

	It("errors on a missing positional argument", func() {
		spec, _ := ParseArgSpec(flyDocstring)
		_, err := spec.Parse("3")
		Expect(err).To(HaveOccurred())
	})

	It("errors on an unknown flag", func() {
		spec, _ := ParseArgSpec(flyDocstring)
		_, err := spec.Parse("3 7 -bogus 1")
		Expect(err).To(HaveOccurred())
	})

	It("keeps non-numeric tokens as strings", func() {
		spec, _ := ParseArgSpec(patrolDocstring)
		args, err := spec.Parse("abc 10")
		Expect(err).NotTo(HaveOccurred())
		Expect(args.Positional[0]).To(Equal("abc"))
	})
})

var _ = Describe("SanitizeMarkup", Label("scope:unit", "layer:command"), func() {
	It("passes known tags through unchanged", func() {
		Expect(SanitizeMarkup("<red>hello</red>")).To(Equal("<red>hello</red>"))
	})

	It("escapes unknown tag-shaped text", func() {
		Expect(SanitizeMarkup("<script>evil</script>")).To(Equal("&lt;script&gt;evil&lt;/script&gt;"))
	})

	It("leaves ordinary angle-bracket-free text untouched", func() {
		Expect(SanitizeMarkup("plain text")).To(Equal("plain text"))
	})
})
