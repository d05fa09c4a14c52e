package sqlinline

const QTemplateInsert = `--sql 5dfdc3b6-ed8a-485f-8351-3f4df568e4d9
insert into deck_templates (id, owner_id, name, description, storage_key, bytes)
values ($1, $2, $3, $4, $5, $6);
`

const QTemplateGetForOwner = `--sql 287029ff-d995-4bb1-9aa8-facb966a4d46
select id, owner_id, name, description, storage_key, bytes, created_at
from deck_templates
where id = $1 and owner_id = $2;
`

const QTemplateListByOwner = `--sql 657c388d-fb6b-4380-9167-9818ac18888f
select id, owner_id, name, description, storage_key, bytes, created_at
from deck_templates
where owner_id = $1
order by created_at desc;
`

const QTemplateDelete = `--sql 428c3c3e-e29b-4036-8e3e-e86211a4344e
delete from deck_templates
where id = $1 and owner_id = $2;
`
