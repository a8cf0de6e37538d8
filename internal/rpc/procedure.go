package rpc

import (
	"encoding/json"
)

// Kind separates read-only queries from mutations
type Kind string

const (
	KindQuery    Kind = "query"
	KindMutation Kind = "mutation"
)

// Class names the middleware stack a procedure was built from
type Class string

const (
	ClassPublic    Class = "public"
	ClassProtected Class = "protected"
)

// Next continues the chain with the (possibly augmented) context
type Next func(ctx *Context) (any, error)

// Middleware intercepts a procedure call. Returning without calling next short-circuits
// every later middleware and the procedure body.
type Middleware func(ctx *Context, next Next) (any, error)

// Handler is a procedure body working on the raw JSON input
type Handler func(ctx *Context, input json.RawMessage) (any, error)

// Builder accumulates middleware for a class of procedures. It is a value type:
// Use returns a new Builder and never mutates the receiver.
type Builder struct {
	class       Class
	middlewares []Middleware
}

// Use appends middleware; the first one attached runs outermost
func (b Builder) Use(mw ...Middleware) Builder {
	middlewares := make([]Middleware, 0, len(b.middlewares)+len(mw))
	middlewares = append(middlewares, b.middlewares...)
	middlewares = append(middlewares, mw...)
	return Builder{class: b.class, middlewares: middlewares}
}

// As re-labels the builder with another class, keeping its middleware
func (b Builder) As(class Class) Builder {
	return Builder{class: class, middlewares: b.middlewares}
}

func (b Builder) Class() Class {
	return b.class
}

func (b Builder) Query(h Handler) *Procedure {
	return &Procedure{kind: KindQuery, class: b.class, middlewares: b.middlewares, handler: h}
}

func (b Builder) Mutation(h Handler) *Procedure {
	return &Procedure{kind: KindMutation, class: b.class, middlewares: b.middlewares, handler: h}
}

// Procedure is one callable operation with its middleware chain
type Procedure struct {
	kind        Kind
	class       Class
	middlewares []Middleware
	handler     Handler
}

func (p *Procedure) Kind() Kind {
	return p.kind
}

func (p *Procedure) Class() Class {
	return p.class
}

// Call runs the middleware chain, composed right-to-left, around the handler
func (p *Procedure) Call(ctx *Context, input json.RawMessage) (any, error) {
	next := func(ctx *Context) (any, error) {
		return p.handler(ctx, input)
	}

	for i := len(p.middlewares) - 1; i >= 0; i-- {
		mw, inner := p.middlewares[i], next
		next = func(ctx *Context) (any, error) {
			return mw(ctx, inner)
		}
	}

	return next(ctx)
}
