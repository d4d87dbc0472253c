package template

import "strings"

// phrase maps command keywords to a fixed generated block. A directive
// matches the first phrase with a keyword contained in its command.
type phrase struct {
	name     string
	keywords []string
	block    string
}

// generator is the closed directive table for one runtime.
type generator struct {
	runtime  string
	contexts []string // accepted directive contexts, lower case
	phrases  []phrase
}

func (g *generator) matchContext(ctx string) bool {
	ctx = strings.ToLower(strings.TrimSpace(ctx))
	for _, c := range g.contexts {
		if ctx == c {
			return true
		}
	}
	return false
}

func (g *generator) match(command string) (phrase, bool) {
	cmd := strings.ToLower(command)
	for _, p := range g.phrases {
		for _, k := range p.keywords {
			if strings.Contains(cmd, k) {
				return p, true
			}
		}
	}
	return phrase{}, false
}

var pythonGenerator = &generator{
	runtime:  "python",
	contexts: []string{"python", "python3", "flask"},
	phrases: []phrase{
		{
			name:     "time endpoint",
			keywords: []string{"time endpoint", "/time", "current time"},
			block: `from datetime import datetime

@app.route('/time')
def get_time():
    return {'time': datetime.now().strftime('%Y-%m-%d %H:%M:%S')}
`,
		},
		{
			name:     "error handling + startup",
			keywords: []string{"error handling", "errorhandler", "startup", "run the app"},
			block: `@app.errorhandler(404)
def not_found(error):
    return {'error': 'Not found'}, 404

if __name__ == '__main__':
    app.run(host='0.0.0.0', port=5000, debug=True)
`,
		},
		{
			name:     "application scaffold",
			keywords: []string{"application", "scaffold", "hello world"},
			block: `from flask import Flask
app = Flask(__name__)

@app.route('/')
def hello_world():
    return 'Hello World'
`,
		},
	},
}

var nodeGenerator = &generator{
	runtime:  "nodejs",
	contexts: []string{"nodejs", "node", "javascript", "express"},
	phrases: []phrase{
		{
			name:     "time endpoint",
			keywords: []string{"time endpoint", "/time", "current time"},
			block: `app.get('/time', (req, res) => {
  res.json({ time: new Date().toISOString() });
});
`,
		},
		{
			name:     "error handling + startup",
			keywords: []string{"error handling", "startup", "run the app", "listen"},
			block: `app.use((req, res) => {
  res.status(404).json({ error: 'Not found' });
});

app.listen(3000, '0.0.0.0', () => {
  console.log('Server listening on port 3000');
});
`,
		},
		{
			name:     "application scaffold",
			keywords: []string{"application", "scaffold", "hello world"},
			block: `const express = require('express');
const app = express();

app.get('/', (req, res) => {
  res.send('Hello World');
});
`,
		},
	},
}

// generatorFor returns the table for the entrypoint's runtime, or nil.
func generatorFor(entrypoint string) *generator {
	switch {
	case strings.HasSuffix(entrypoint, ".py"):
		return pythonGenerator
	case strings.HasSuffix(entrypoint, ".js"):
		return nodeGenerator
	}
	return nil
}
