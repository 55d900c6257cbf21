package core

// SampleFileName names the report produced by Service.Sample.
const SampleFileName = "sample-sales-data.json"

var sampleSalesData = []byte(`[
  {"name": "Product A", "sales": 1200, "revenue": 15000, "category": "Electronics"},
  {"name": "Product B", "sales": 800, "revenue": 12000, "category": "Clothing"},
  {"name": "Product C", "sales": 1500, "revenue": 18000, "category": "Electronics"},
  {"name": "Product D", "sales": 600, "revenue": 9000, "category": "Books"},
  {"name": "Product E", "sales": 2000, "revenue": 25000, "category": "Electronics"},
  {"name": "Product F", "sales": 900, "revenue": 11000, "category": "Clothing"},
  {"name": "Product G", "sales": 1100, "revenue": 14000, "category": "Books"},
  {"name": "Product H", "sales": 1300, "revenue": 16000, "category": "Electronics"}
]`)
