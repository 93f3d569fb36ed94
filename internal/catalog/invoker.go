package catalog

import (
	"context"
	"fmt"
	"reflect"

	"github.com/vk/funcgrid/internal/ctxlog"
	"github.com/vk/funcgrid/internal/message"
)

// Invoker is the invocable unit a lookup resolves to: one function, or a
// composed pipeline of them.
type Invoker struct {
	name   string
	stages []stage
	chain  *message.Composite
}

type stage struct {
	fn      Function
	handler *Handler
}

// Name returns the looked-up name, including any composition.
func (inv *Invoker) Name() string {
	return inv.name
}

// Invoke runs the message through every stage. Between stages, the previous
// stage's output message is the next stage's input message; the caller's
// Accept header only applies to the final stage.
func (inv *Invoker) Invoke(ctx context.Context, m *message.Message) (*message.Message, error) {
	logger := ctxlog.FromContext(ctx)
	current := m
	for i, st := range inv.stages {
		last := i == len(inv.stages)-1
		logger.Debug("Invoking function stage.", "function", st.fn.Name, "stage", i)
		out, err := st.call(ctx, current, inv.chain, last)
		if err != nil {
			return nil, fmt.Errorf("function %q: %w", st.fn.Name, err)
		}
		current = out
	}
	return current, nil
}

func (st stage) call(ctx context.Context, m *message.Message, chain *message.Composite, last bool) (*message.Message, error) {
	fnVal := reflect.ValueOf(st.handler.Fn)

	// Raw handlers see the envelope untouched.
	if st.handler.raw() {
		results := fnVal.Call([]reflect.Value{reflect.ValueOf(ctx), reflect.ValueOf(m)})
		if err := resultError(results); err != nil {
			return nil, err
		}
		out, _ := results[0].Interface().(*message.Message)
		if out == nil {
			return nil, fmt.Errorf("raw handler returned no message")
		}
		return out, nil
	}

	args := []reflect.Value{reflect.ValueOf(ctx)}
	if fnVal.Type().NumIn() == 2 {
		in := m
		// A binding may declare what untyped senders mean.
		if in.ContentType() == "" && st.fn.InputContentType != "" {
			headers := map[string]string{message.ContentTypeHeader: st.fn.InputContentType}
			for k, v := range in.Headers {
				headers[k] = v
			}
			in = message.New(in.Payload, headers)
		}
		input := st.handler.NewInput()
		if err := chain.Read(in, input); err != nil {
			return nil, err
		}
		args = append(args, reflect.ValueOf(input))
	}

	results := fnVal.Call(args)
	if err := resultError(results); err != nil {
		return nil, err
	}

	outHeaders := make(map[string]string)
	if last {
		accept := m.Accept()
		if accept == "" {
			accept = st.fn.OutputContentType
		}
		if accept != "" {
			outHeaders[message.AcceptHeader] = accept
		}
	}
	return chain.Write(results[0].Interface(), outHeaders)
}

func resultError(results []reflect.Value) error {
	if errVal := results[1]; !errVal.IsNil() {
		return errVal.Interface().(error)
	}
	return nil
}
