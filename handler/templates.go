package handler

import (
	"html/template"

	"github.com/Financial-Times/books-frontend/render"
)

const (
	createFormID = render.CreateFormID
	searchFormID = render.SearchFormID
)

var pageTemplate = template.Must(template.New("books").Parse(`<!DOCTYPE html>
<html lang="et">
<head>
<meta charset="utf-8">
<title>Raamatud</title>
</head>
<body>
<h1>Raamatud</h1>
<form id="frontform" action="{{.CreateAction}}" method="post">
<label for="raamatu_id">Raamatu ID</label>
<input type="text" id="raamatu_id" name="raamatu_id" required>
<button type="submit">Lisa raamat</button>
</form>
<form id="otsinguform" action="{{.SearchAction}}" method="post">
<label for="sone">Otsitav sõne</label>
<input type="text" id="sone" name="sone" required>
<button type="submit">Otsi</button>
</form>
<h2>Tulemus</h2>
<div id="tulemus">{{.Result}}</div>
<h2>Raamatud</h2>
<div id="raamatud_result">{{.Listing}}</div>
</body>
</html>
`))
