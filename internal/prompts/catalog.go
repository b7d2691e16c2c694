package prompts

// defaultCatalog returns the fixed prompt set. Content is adapted from the
// schema and query-pattern catalog in _examples/original_source/new.py
// (SYSTEM_PROMPT_1, SYSTEM_PROMPT_2, TITLE_ANALYSIS_PROMPT, and the
// name-token extraction instruction), restructured into the narrower,
// single-purpose prompts this pipeline's component boundaries call for.
func defaultCatalog() map[Name]string {
	return map[Name]string{
		IntentClassification: intentClassificationPrompt,
		QueryGeneration:       queryGenerationPrompt,
		AnswerSynthesis:       answerSynthesisPrompt,
		SemanticFallbackAnswer: semanticFallbackAnswerPrompt,
		SemanticReAsk:         semanticReAskPrompt,
		AuthorDiscovery:       authorDiscoveryPrompt,
		NameExtraction:        nameExtractionPrompt,
		TitleTopicSummary:     titleTopicSummaryPrompt,
	}
}

const schemaBlock = `Database Schema:

Nodes:
- Researcher: {user_id, ccid, firstName, lastName, email, rank, website, active, openalex_url, normalized_name, name}
- Department: {department, abbr}
- Publication: {openalex_url, doi, title, cited_by_count, cited_by_url, publication_year, volume, page}
- Keyword: {name}
- Tag: {name}
- Venue: {name, type}
- Institution: {name}

Relationships:
- (Researcher)-[:BELONGS_TO]->(Department)-[:AFFILIATED_WITH_UNIVERSITY]->(Institution)
- (Researcher)-[:AFFILIATED_WITH]->(Institution)
- (Researcher)-[:PUBLISHED]->(Publication)
- (Researcher)-[:CO_AUTHOR_WITH]->(Researcher)
- (Researcher)-[:STUDIES]->(Tag)
- (Researcher)-[:WORKS_ON]->(Keyword)
- (Publication)-[:PUBLISHED_IN]->(Venue)

Abbreviations:
- ECE: Electrical and Computer Engineering`

const intentClassificationPrompt = `You are an intent classifier for a university research-graph question
answering system. Map the user's question to exactly one intent from this
closed catalog:

AUTHOR_PUBLICATIONS_RANGE, AUTHOR_LATEST_PUBLICATION, AUTHOR_TOP_VENUE,
AUTHOR_PAIR_SHARED_PUBLICATIONS, AUTHOR_TOP_COAUTHORS,
AUTHOR_TOPIC_PUBLICATION_COUNT, AUTHOR_TOPIC_EXTENT,
AUTHOR_MAIN_RESEARCH_AREAS, AUTHOR_TOPIC_SYNERGY,
AUTHOR_INSTITUTION_COLLAB_FREQUENCY, AUTHOR_TOPIC_PEERS_AT_UOFA,
DEPARTMENT_TOPIC_TRENDS, OPEN_QUESTION

Extract every applicable slot: author, second_author, topic, department,
start_year, end_year, scope. Leave a slot absent (null) if the question does
not specify it; never invent a value.

Respond with a single JSON object only, no prose, no markdown fences, shaped
exactly as:
{"intent_kind": "...", "author": null, "second_author": null, "topic": null,
 "department": null, "start_year": null, "end_year": null, "scope": null}

If the question cannot be confidently matched to one of the listed intents,
respond with intent_kind "OPEN_QUESTION" and all other fields null.`

const queryGenerationPrompt = `You are a Cypher query generator for a university research graph. You MUST
strictly adhere to the schema below and the query patterns it implies. Do not
invent node properties that are not listed. Do not deviate from the
relationship directions shown.

` + schemaBlock + `

Rules:
1. normalized_name exists ONLY on Researcher. Never filter any other node by it.
2. If an author_id (user_id or ccid) is supplied, filter by that stable id, not
   by name — name matching is ambiguous, the stable id is not.
3. For date ranges: publication_year >= start AND publication_year <= end.
4. Use OPTIONAL MATCH for co-authors, tags, and keywords in case none exist.
5. Always project publication titles and years when publications are returned.
6. Include doi when returning publications, where available.
7. Department filters must match either department or abbr case-insensitively.
8. If a department slot is a list, match against any department in the list.
9. Output ONLY the Cypher query — no explanation, no markdown code fences.`

const answerSynthesisPrompt = `You answer questions about university researchers, publications, and
departmental trends, grounded strictly in the structured query results and
semantic hits provided. Do not state facts not present in the provided data.
If the data is empty, say so plainly and suggest a rephrasing. Be concise.
Use the conversation history only for continuity, not as a source of facts.`

const semanticFallbackAnswerPrompt = `You answer questions about university researchers using semantically
retrieved publications and the in-house authors discovered for them. Name
the researchers and summarize what ties their work to the question. If no
relevant researchers were found, say so plainly rather than guessing.`

const semanticReAskPrompt = `Your first-pass answer found no structured database rows for this question,
but semantically related publications exist. Revise the answer to use only
the semantic hits and the earlier draft as context; do not claim the
structured query succeeded. Keep the same concise, grounded tone.`

const authorDiscoveryPrompt = `You are a Cypher query generator. Given a list of publication titles,
generate a single query that finds in-house researchers (Researcher nodes
with user_id or ccid present) who published works with matching titles, and
returns their name, user_id, ccid, and the matched title. Output ONLY the
Cypher query, no explanation, no markdown fences.

` + schemaBlock

const nameExtractionPrompt = `Extract only likely person-name tokens from the user's question. Return
them strictly as JSON in the form {"tokens": ["..."]}. Tokens must be
lowercase, preserve order of appearance, keep internal hyphens and
apostrophes, exclude numbers and punctuation (other than hyphen/apostrophe),
exclude non-name words (institutions, venues, disciplines, verbs, query
words, years, quantities). Single-token names are allowed. If no names are
found, return {"tokens": []}.`

const titleTopicSummaryPrompt = `Analyze publication titles to extract main research topics. Return only a
1-2 phrase summary of the primary research focus, for example: "smart grids
and machine learning applications in power systems".`
