package constants

// DefaultIgnoreRules is the fixed content of the ignore-rules file written when a
// repository is initialized. It is not user-configurable.
const DefaultIgnoreRules = `# Python
__pycache__/
*.py[cod]
*$py.class
*.so
.Python
env/
venv/
ENV/
env.bak/
venv.bak/

# JavaScript / Node.js
node_modules/
npm-debug.log*
yarn-debug.log*
yarn-error.log*

# Editors and IDEs
.vscode/
.idea/
*.swp
*.swo
*~

# Operating system
.DS_Store
Thumbs.db

# Logs
*.log
logs/

# Temporary files
*.tmp
*.temp

# Local configuration
.env
config.local.json

# Build output
dist/
build/
`
