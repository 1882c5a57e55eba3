// Package aisx renders declaratively composed element trees to markup text,
// typically prompt templates for language models.
//
// Elements are literal tags, fragments, or components. Any content or
// attribute value may be pending (a *Future); the renderer produces the
// output synchronously when nothing in the tree is pending and defers only
// the branches that wait.
//
// # Basic Usage
//
//	prompt := aisx.El("prompt", aisx.Attrs{aisx.A("id", "p1")},
//	    aisx.Tag("system", "You are helpful."),
//	    aisx.Tag("user", question),
//	)
//	res, err := aisx.Render(ctx, prompt)
//	text := res.MustText()
//	// <prompt id="p1"><system>You are helpful.</system><user>...</user></prompt>
//
// # Pending Values
//
// A Future placed anywhere in the tree makes Render return a deferred Result.
// Await it, or use RenderAsync, which always waits:
//
//	doc := aisx.Tag("context", aisx.Go(fetchContext))
//	text, err := aisx.RenderAsync(ctx, doc)
//
// Reading a deferred Result with Text before it settled returns a
// PendingError that lists the async mismatches and the render tree.
// A pending value that fails renders as "" and is reported as a warning;
// sibling values are not affected.
//
// # Components
//
// Components receive their attributes and children as Props:
//
//	greeting := aisx.NewComponent("Greeting", func(p aisx.Props) any {
//	    return aisx.Tag("greeting", "Hello, ", p.GetString("name"))
//	})
//	engine.MustRegisterComponent(greeting)
//	aisx.RenderAsync(ctx, greeting.El(aisx.Attrs{aisx.A("name", "Ada")}))
//
// A component may return a Future, or call Suspend to wait on one.
//
// # Documents
//
// Engine.ParseDocument builds elements from YAML or JSON, resolving
// components from the engine's registry. See cmd/aisx for the CLI.
package aisx
