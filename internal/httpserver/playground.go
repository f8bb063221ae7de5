package httpserver

// playgroundHTML is the development-mode landing page at GET / (spec.md
// §6). It posts directly to /graphql using the operationName/variables
// contract documented in graphql.go, rather than embedding a full GraphQL
// IDE bundle.
const playgroundHTML = `<!DOCTYPE html>
<html>
<head><title>categories playground</title></head>
<body>
<h1>categories</h1>
<p>POST /graphql with {"operationName": "...", "variables": {...}}.</p>
<p>Operations: categories, subCategories, categoryById, create, update, delete.</p>
</body>
</html>
`
