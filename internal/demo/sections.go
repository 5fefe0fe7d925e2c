package demo

import (
	"time"

	"codemorph/internal/snippet"
	"codemorph/internal/tui/codeview"
)

// Section is one showcase tab.
type Section struct {
	Title       string
	Description string
	Items       []snippet.Item
	Configure   func(*codeview.Options)
	// Custom marks the section whose index is owned by the demo itself.
	Custom bool
}

var basic = snippet.FromStrings(
	"const greeting = 'Hello';",
	"const greeting = 'Hello World!';",
	"const greeting = 'Hello Universe!';",
)

var withFilenames = []snippet.Item{
	{Text: "import React from 'react';", Filename: "App.tsx"},
	{Text: "import React, { useState } from 'react';", Filename: "App.tsx"},
	{Text: "import React, { useState, useEffect } from 'react';", Filename: "App.tsx"},
}

var counter = []snippet.Item{
	{Filename: "Counter.tsx", Text: `function Counter() {
  return (
    <div>
      <h1>Count: 0</h1>
    </div>
  );
}`},
	{Filename: "Counter.tsx", Text: `function Counter() {
  const [count, setCount] = useState(0);

  return (
    <div>
      <h1>Count: {count}</h1>
    </div>
  );
}`},
	{Filename: "Counter.tsx", Text: `function Counter() {
  const [count, setCount] = useState(0);

  return (
    <div>
      <h1>Count: {count}</h1>
      <button onClick={() => setCount(count + 1)}>
        Increment
      </button>
    </div>
  );
}`},
}

var greetPy = []snippet.Item{
	{Filename: "greet.py", Text: "def greet():\n    print('Hello')"},
	{Filename: "greet.py", Text: "def greet(name):\n    print(f'Hello {name}')"},
	{Filename: "greet.py", Text: "def greet(name='World'):\n    print(f'Hello {name}!')\n    return f'Hello {name}!'"},
}

var greetSteps = snippet.FromStrings(
	"function greet() {\n  console.log('Hello');\n}",
	"function greet(name) {\n  console.log(`Hello ${name}`);\n}",
	"function greet(name = 'World') {\n  console.log(`Hello ${name}!`);\n}",
	"function greet(name = 'World') {\n  const message = `Hello ${name}!`;\n  console.log(message);\n  return message;\n}",
)

// Sections returns the showcase tabs in display order.
func Sections() []Section {
	return []Section{
		{
			Title:       "Basic",
			Description: "Simple code transitions with built-in navigation",
			Items:       basic,
		},
		{
			Title:       "Filenames",
			Description: "Display filenames in the code header",
			Items:       withFilenames,
		},
		{
			Title:       "Component evolution",
			Description: "Watch a React component grow step by step",
			Items:       counter,
			Configure:   func(o *codeview.Options) { o.Language = "tsx" },
		},
		{
			Title:       "Python / Dracula",
			Description: "Different language and custom theme",
			Items:       greetPy,
			Configure: func(o *codeview.Options) {
				o.Language, o.Theme = "python", "dracula"
				o.Duration = time.Second
			},
		},
		{
			Title:       "No line numbers",
			Description: "Clean code display without line numbers",
			Items:       basic,
			Configure:   func(o *codeview.Options) { o.LineNumbers = false },
		},
		{
			Title:       "Nord",
			Description: "Nord color scheme",
			Items:       counter,
			Configure:   func(o *codeview.Options) { o.Language, o.Theme = "tsx", "nord" },
		},
		{
			Title:       "Custom controls",
			Description: "The host owns the index; the view only requests changes",
			Items:       greetSteps,
			Configure:   func(o *codeview.Options) { o.ShowControls = false },
			Custom:      true,
		},
		{
			Title:       "Autoplay",
			Description: "Automatically cycle through code snippets",
			Items:       counter,
			Configure: func(o *codeview.Options) {
				o.Language = "tsx"
				o.Autoplay.Enabled = true
				o.Autoplay.Interval = 3 * time.Second
				o.Duration = 600 * time.Millisecond
			},
		},
	}
}
