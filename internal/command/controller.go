package command

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-logr/logr"
)

// Handler is a registered command's callback: it receives the parsed
// arguments and returns rendered feedback text (possibly empty) or an
// error.
type Handler func(args *Args) (string, error)

type registered struct {
	spec    *ArgSpec
	handler Handler
}

// Controller is a named registry of commands plus a single-level
// alias map, matching the teacher's dispatcher-registry pattern
// generalized from a fixed message-type switch to an open string-keyed
// command table.
type Controller struct {
	Name string

	log      logr.Logger
	feedback func(string)
	commands map[string]registered
	cache    map[string]interface{}
	aliases  map[string]string
}

// NewController returns an empty Controller. feedback receives
// human-readable warnings (a missing command, a parse failure); if
// nil, feedback is logged at Info level instead.
func NewController(name string, log logr.Logger, feedback func(string)) *Controller {
	return &Controller{
		Name:     name,
		log:      log,
		feedback: feedback,
		commands: make(map[string]registered),
		cache:    make(map[string]interface{}),
		aliases:  make(map[string]string),
	}
}

func (c *Controller) warn(msg string) {
	if c.feedback != nil {
		c.feedback(msg)
		return
	}
	c.log.Info(msg)
}

// SetAliases installs a single-level alias map: invoking an alias name
// expands to its mapped statement string before further dispatch.
func (c *Controller) SetAliases(aliases map[string]string) {
	c.aliases = aliases
}

// HasCommand reports whether name is registered as a live command.
func (c *Controller) HasCommand(name string) bool {
	_, ok := c.commands[name]
	return ok
}

// HasCached reports whether name holds a cached value instead.
func (c *Controller) HasCached(name string) bool {
	_, ok := c.cache[name]
	return ok
}

// Has reports whether name resolves to either a command or a cached
// value.
func (c *Controller) Has(name string) bool {
	return c.HasCommand(name) || c.HasCached(name)
}

// RegisterCommand adds name to the registry, building its ArgSpec from
// docstring. Registering an already-registered name is an error.
func (c *Controller) RegisterCommand(name, docstring string, handler Handler) error {
	if c.HasCommand(name) {
		return fmt.Errorf("command %q already registered in %s", name, c)
	}
	spec, err := ParseArgSpec(docstring)
	if err != nil {
		return fmt.Errorf("command %q failed to resolve docstring as argspec: %w", name, err)
	}
	c.commands[name] = registered{spec: spec, handler: handler}
	c.log.V(1).Info("registered command", "name", name, "spec", spec.String())
	return nil
}

// Cache stores value under name for retrieval via DoCommand, for
// static content a UI polls without an actual callback.
func (c *Controller) Cache(name string, value interface{}) error {
	if c.HasCommand(name) {
		return fmt.Errorf("command %q already registered in %s", name, c)
	}
	c.cache[name] = value
	return nil
}

// CommandNames returns every registered command name, sorted.
func (c *Controller) CommandNames() []string {
	names := make([]string, 0, len(c.commands))
	for name := range c.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DoCommand resolves one alias level, parses argString against the
// matching command's spec, and invokes its handler. A missing command
// name or a cached (non-callable) entry returns its cached value, if
// any, with no error. Parse/handler errors surface through feedback
// and are also returned to the caller.
func (c *Controller) DoCommand(name, argString string) (string, error) {
	if expanded, ok := c.aliases[name]; ok {
		return c.ExecuteLine(expanded)
	}
	entry, ok := c.commands[name]
	if !ok {
		if cached, ok := c.cache[name]; ok {
			return fmt.Sprintf("%v", cached), nil
		}
		msg := fmt.Sprintf("command %q not found in %s", name, c)
		c.warn(msg)
		return "", nil
	}
	args, err := entry.spec.Parse(argString)
	if err != nil {
		argErr, ok := err.(*ArgError)
		if ok {
			argErr.Command = name
		}
		msg := err.Error()
		c.warn(msg)
		return "", err
	}
	return entry.handler(args)
}

// ExecuteLine splits line into `&&`-joined statements (also accepting
// the HTML-escaped "&amp;&amp;" form) and runs each in turn, joining
// their non-empty feedback with newlines. Execution stops at the first
// statement that errors, and that error is returned.
func (c *Controller) ExecuteLine(line string) (string, error) {
	line = strings.ReplaceAll(line, "&amp;&amp;", "&&")
	statements := strings.Split(line, "&&")
	var outputs []string
	for _, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		name, rest, _ := cut(stmt)
		out, err := c.DoCommand(name, rest)
		if err != nil {
			return strings.Join(outputs, "\n"), err
		}
		if out != "" {
			outputs = append(outputs, out)
		}
	}
	return strings.Join(outputs, "\n"), nil
}

func (c *Controller) String() string {
	return fmt.Sprintf("<%s Controller>", c.Name)
}
