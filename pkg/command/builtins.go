package command

import (
	"strings"

	"github.com/gimlet-io/hookcast/pkg/message"
)

// Func adapts a plain function to Command.
type Func struct {
	Aliases []string
	Run     func(ctx Context, name string, args []string) error
}

func (f *Func) Names() []string {
	return f.Aliases
}

func (f *Func) Execute(ctx Context, name string, args []string) error {
	return f.Run(ctx, name, args)
}

func Ping() Command {
	return &Func{
		Aliases: []string{"ping", "p"},
		Run: func(ctx Context, name string, args []string) error {
			if len(args) != 0 {
				return &ParameterError{Usage: name}
			}
			return ctx.SendMessage(message.NewBuilder().
				Text(ctx.UserReference() + ":").
				Style(message.StyleBold).
				Text("pong").
				Build())
		},
	}
}

func Version(version string) Command {
	return &Func{
		Aliases: []string{"version"},
		Run: func(ctx Context, name string, args []string) error {
			return ctx.SendMessage(message.NewBuilder().
				Text(ctx.UserReference() + ": running").
				Style(message.StyleBold).
				Text("hookcast").
				Style(message.StyleNormal).
				Color(message.ColorDarkGreen).
				Text(version).
				Build())
		},
	}
}

// Help lists every alias of the dispatcher, or the aliases of a single
// command when one is given as argument.
func Help(dispatcher func() *Dispatcher) Command {
	return &Func{
		Aliases: []string{"help", "commands"},
		Run: func(ctx Context, name string, args []string) error {
			if len(args) > 1 {
				return &ParameterError{Usage: name + " [command]"}
			}

			names := dispatcher().Names()
			if len(args) == 1 {
				c, ok := dispatcher().Lookup(args[0])
				if !ok {
					return &NoSuchCommandError{Name: args[0]}
				}
				names = c.Names()
			}

			return ctx.SendMessage(message.NewBuilder().
				Text(ctx.UserReference() + ": available commands").
				Style(message.StyleBold).
				Text(strings.Join(names, ", ")).
				Build())
		},
	}
}

// Unknown, Usage and Failed are the replies sent for the errors Dispatch
// returns.
func Unknown(ctx Context, name string) *message.Message {
	return message.NewBuilder().
		Text(ctx.UserReference() + ": unknown command").
		Style(message.StyleBold).
		Text(name).
		Build()
}

func Usage(ctx Context, usage string) *message.Message {
	return message.NewBuilder().
		Text(ctx.UserReference() + ": usage").
		Style(message.StyleItalics).
		Text(usage).
		Build()
}

func Failed(ctx Context) *message.Message {
	return message.NewBuilder().
		Text(ctx.UserReference() + ":").
		Color(message.ColorRed).
		Text("command failed").
		Build()
}
