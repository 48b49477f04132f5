// Package todo holds the task collection, its store, and the JSON codec.
//
// The export format is a pretty-printed JSON array:
//
//	[
//	  {
//	    "id": 1718000000000,
//	    "text": "buy milk",
//	    "completed": false,
//	    "priority": "high",
//	    "date": "2024-01-02T09:30:00.000Z",
//	    "memo": "2 litres"
//	  },
//	  {
//	    "id": 1718000000001,
//	    "text": "call mom",
//	    "completed": true,
//	    "priority": "medium",
//	    "date": null
//	  }
//	]
//
// # Import
//
// Import replaces the whole collection. The default mode accepts any
// document that parses as an array of task objects; records with missing
// ids or unknown priorities are kept as they are.
//
// Strict mode additionally checks the document against a JSON Schema
// (draft 2020-12). The embedded schema is used unless a schema file is
// configured.
//
// # Priority
//
//   - "high": rank 1
//   - "medium": rank 2 (default)
//   - "low": rank 3
//
// Unknown values rank after "low".
package todo
