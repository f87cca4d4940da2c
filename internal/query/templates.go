package query

import "github.com/matsen/dimnet/internal/network"

type template struct {
	text string
	bind func(network.Params) []Param
}

// templates is keyed by the closed (dialect, kind) pair. Placeholders:
// {{subset}} is the topic query, {{dataset}} the BigQuery dataset.
var templates = map[Dialect]map[network.Kind]template{
	BigQuery: {
		network.Organizations: {text: bigQueryOrganizations, bind: organizationParams},
		network.Concepts:      {text: bigQueryConcepts, bind: conceptParams},
	},
	SQLite: {
		network.Organizations: {text: sqliteOrganizations, bind: organizationParams},
		network.Concepts:      {text: sqliteConcepts, bind: conceptParams},
	},
}

const bigQueryOrganizations = `WITH subset AS (
{{subset}}
),
top_nodes AS (
  SELECT orgid, COUNT(DISTINCT p.id) AS pubs
  FROM ` + "`{{dataset}}.publications`" + ` p
  CROSS JOIN UNNEST(p.research_orgs) orgid
  WHERE p.id IN (SELECT id FROM subset)
  GROUP BY 1
  ORDER BY pubs DESC, orgid ASC
  LIMIT @max_nodes
),
links AS (
  SELECT
    CONCAT(g1.name, ' (', org1_id, ')') AS org1,
    CONCAT(g2.name, ' (', org2_id, ')') AS org2,
    COUNT(DISTINCT p.id) AS collabs
  FROM ` + "`{{dataset}}.publications`" + ` p
  CROSS JOIN UNNEST(p.research_orgs) org1_id
  CROSS JOIN UNNEST(p.research_orgs) org2_id
  INNER JOIN ` + "`{{dataset}}.grid`" + ` g1 ON org1_id = g1.id
  INNER JOIN ` + "`{{dataset}}.grid`" + ` g2 ON org2_id = g2.id
  WHERE p.id IN (SELECT id FROM subset)
    AND org1_id > org2_id
    AND org1_id IN (SELECT orgid FROM top_nodes)
    AND org2_id IN (SELECT orgid FROM top_nodes)
  GROUP BY 1, 2
)
SELECT org1, org2, collabs
FROM links
WHERE collabs >= @min_edge_weight
ORDER BY collabs DESC, org1, org2
`

const bigQueryConcepts = `WITH subset AS (
{{subset}}
),
papercount AS (
  SELECT concept.concept AS concept, COUNT(DISTINCT p.id) AS papers
  FROM ` + "`{{dataset}}.publications`" + ` p
  INNER JOIN subset ON p.id = subset.id
  CROSS JOIN UNNEST(p.concepts) concept
  WHERE p.year >= @min_year
    AND concept.relevance >= @min_concept_relevance
  GROUP BY 1
),
filtered AS (
  SELECT concept, papers
  FROM papercount
  WHERE papers >= @min_concept_frequency
  ORDER BY papers DESC, concept ASC
  LIMIT @max_nodes
),
results AS (
  SELECT concept1.concept AS concept_a, concept2.concept AS concept_b,
    COUNT(DISTINCT p.id) AS overlap
  FROM ` + "`{{dataset}}.publications`" + ` p
  INNER JOIN subset ON p.id = subset.id
  CROSS JOIN UNNEST(p.concepts) concept1
  CROSS JOIN UNNEST(p.concepts) concept2
  INNER JOIN filtered f1 ON concept1.concept = f1.concept
  INNER JOIN filtered f2 ON concept2.concept = f2.concept
  WHERE p.year >= @min_year
    AND concept1.relevance >= @min_concept_relevance
    AND concept2.relevance >= @min_concept_relevance
    AND concept1.concept > concept2.concept
  GROUP BY 1, 2
)
SELECT concept_a, concept_b, overlap
FROM results
WHERE overlap >= @min_edge_weight
ORDER BY overlap DESC, concept_a, concept_b
`

const sqliteOrganizations = `WITH subset AS (
{{subset}}
),
top_nodes AS (
  SELECT po.org_id AS orgid, COUNT(DISTINCT p.id) AS pubs
  FROM publications p
  JOIN publication_orgs po ON po.pub_id = p.id
  WHERE p.id IN (SELECT id FROM subset)
  GROUP BY po.org_id
  ORDER BY pubs DESC, orgid ASC
  LIMIT @max_nodes
),
links AS (
  SELECT
    g1.name || ' (' || o1.org_id || ')' AS org1,
    g2.name || ' (' || o2.org_id || ')' AS org2,
    COUNT(DISTINCT p.id) AS collabs
  FROM publications p
  JOIN publication_orgs o1 ON o1.pub_id = p.id
  JOIN publication_orgs o2 ON o2.pub_id = p.id
  JOIN grid g1 ON g1.id = o1.org_id
  JOIN grid g2 ON g2.id = o2.org_id
  WHERE p.id IN (SELECT id FROM subset)
    AND o1.org_id > o2.org_id
    AND o1.org_id IN (SELECT orgid FROM top_nodes)
    AND o2.org_id IN (SELECT orgid FROM top_nodes)
  GROUP BY o1.org_id, o2.org_id
)
SELECT org1, org2, collabs
FROM links
WHERE collabs >= @min_edge_weight
ORDER BY collabs DESC, org1, org2
`

const sqliteConcepts = `WITH subset AS (
{{subset}}
),
papercount AS (
  SELECT pc.concept AS concept, COUNT(DISTINCT p.id) AS papers
  FROM publications p
  JOIN publication_concepts pc ON pc.pub_id = p.id
  WHERE p.id IN (SELECT id FROM subset)
    AND p.year >= @min_year
    AND pc.relevance >= @min_concept_relevance
  GROUP BY pc.concept
),
filtered AS (
  SELECT concept, papers
  FROM papercount
  WHERE papers >= @min_concept_frequency
  ORDER BY papers DESC, concept ASC
  LIMIT @max_nodes
),
results AS (
  SELECT c1.concept AS concept_a, c2.concept AS concept_b,
    COUNT(DISTINCT p.id) AS overlap
  FROM publications p
  JOIN publication_concepts c1 ON c1.pub_id = p.id
  JOIN publication_concepts c2 ON c2.pub_id = p.id
  WHERE p.id IN (SELECT id FROM subset)
    AND p.year >= @min_year
    AND c1.relevance >= @min_concept_relevance
    AND c2.relevance >= @min_concept_relevance
    AND c1.concept > c2.concept
    AND c1.concept IN (SELECT concept FROM filtered)
    AND c2.concept IN (SELECT concept FROM filtered)
  GROUP BY c1.concept, c2.concept
)
SELECT concept_a, concept_b, overlap
FROM results
WHERE overlap >= @min_edge_weight
ORDER BY overlap DESC, concept_a, concept_b
`
