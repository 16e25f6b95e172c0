// Package io reads and writes resolution graphs as JSON.
//
// The format lists nodes with their depth and metadata, then edges:
//
//	{
//	  "meta": {"label": "main"},
//	  "nodes": [
//	    {"id": "org.example:app:1.0", "meta": {"repository": "https://repo1.maven.org/maven2"}},
//	    {"id": "org.example:lib:2.0", "depth": 1}
//	  ],
//	  "edges": [{"from": "org.example:app:1.0", "to": "org.example:lib:2.0"}]
//	}
//
// [WriteJSON] and [ReadJSON] round-trip a [dag.DAG]; [ExportJSON] and
// [ImportJSON] are their file-based counterparts. Tools that post-process a
// resolution (license scanners, diff tools) can consume the output without
// linking against this module.
package io
