package driver

var IndexQueries = []string{
	"CREATE INDEX ON :Entity(id);",
	"CREATE INDEX ON :Entity(graph_id);",
	"CREATE INDEX ON :Document(id);",
	"CREATE CONSTRAINT ON (d:Document) ASSERT d.id IS UNIQUE;",
}

const (
	DeleteGraphQuery = `
		MATCH (n:Entity {graph_id: $graph_id})
		DETACH DELETE n
	`

	SaveEntitiesQuery = `
		UNWIND $rows AS row
		MERGE (n:Entity {graph_id: $graph_id, id: row.id})
		SET n.type = row.type,
			n.text = row.text,
			n.normalized_text = row.normalized_text,
			n.sources = row.sources
		RETURN count(n) AS saved
	`

	SaveMentionsQuery = `
		UNWIND $rows AS row
		MATCH (n:Entity {graph_id: $graph_id, id: row.entity_id})
		MERGE (d:Document {id: row.document_id})
		CREATE (n)-[m:MENTIONED_IN]->(d)
		SET m.section = row.section,
			m.start_pos = row.start_pos,
			m.end_pos = row.end_pos,
			m.timestamp = row.timestamp
		RETURN count(m) AS saved
	`

	SaveRelationsQuery = `
		UNWIND $rows AS row
		MATCH (s:Entity {graph_id: $graph_id, id: row.subject})
		MATCH (o:Entity {graph_id: $graph_id, id: row.object})
		MERGE (s)-[r:RELATES_TO {graph_id: $graph_id, key: row.key}]->(o)
		SET r.predicate = row.predicate,
			r.evidence = row.evidence,
			r.confidence = row.confidence,
			r.sources = row.sources
		RETURN count(r) AS saved
	`

	CountGraphQuery = `
		MATCH (n:Entity {graph_id: $graph_id})
		OPTIONAL MATCH (n)-[r:RELATES_TO {graph_id: $graph_id}]->()
		RETURN count(DISTINCT n) AS nodes, count(r) AS edges
	`
)
