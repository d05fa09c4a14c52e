package sqlinline

const QPromptTemplateInsert = `--sql 783b3318-8b0d-4b11-9384-6b0687b34501
insert into prompt_templates (id, owner_id, name, prompt, description, is_default)
values ($1, $2, $3, $4, $5, $6);
`

const QPromptTemplateGetForOwner = `--sql c95169d5-5715-49d8-835a-4bc38b970e6d
select id, owner_id, name, prompt, description, is_default, created_at, updated_at
from prompt_templates
where id = $1 and owner_id = $2;
`

const QPromptTemplateListByOwner = `--sql f94f3bdf-096c-4e7f-bd3c-bf0aec18c316
select id, owner_id, name, prompt, description, is_default, created_at, updated_at
from prompt_templates
where owner_id = $1
order by created_at desc;
`

const QPromptTemplateUpdate = `--sql 29fad4a2-57a8-4506-a207-d70b07e45dcc
update prompt_templates
set name = $3,
    prompt = $4,
    description = $5,
    is_default = $6,
    updated_at = now()
where id = $1 and owner_id = $2;
`

const QPromptTemplateDelete = `--sql afcd6b01-7c69-4b24-847f-691ad5b7187d
delete from prompt_templates
where id = $1 and owner_id = $2;
`
